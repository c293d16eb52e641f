package models

import "time"

// Transaction is one input row. Revenue is derived as Units * Price when the
// row is loaded and is never recomputed.
type Transaction struct {
	Date    time.Time
	Region  string
	Product string
	Units   float64
	Price   float64
	Revenue float64
}

// Table is the loaded, derived dataset in input order.
type Table struct {
	Transactions []Transaction
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Transactions)
}

// DailyRevenue is the summed revenue of one region on one date.
type DailyRevenue struct {
	Region  string
	Date    time.Time
	Revenue float64
}

type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}
