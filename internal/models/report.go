package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Report is the emitted summary. A nil entry in RollingRevenue means the
// region had no observations in its series and is encoded as null.
type Report struct {
	RowCount       int                 `json:"row_count"`
	RegionsCount   int                 `json:"regions_count"`
	TopProducts    []ProductRevenue    `json:"top_n_products_by_revenue"`
	RollingRevenue map[string]*float64 `json:"rolling_7d_revenue_by_region"`
}

// NewReport returns a report whose collections encode as [] and {} rather
// than null when nothing was aggregated.
func NewReport() *Report {
	return &Report{
		TopProducts:    make([]ProductRevenue, 0),
		RollingRevenue: make(map[string]*float64),
	}
}

// Revenue is a monetary amount that always encodes with a fractional part,
// so 100 is written as 100.0.
type Revenue float64

func (r Revenue) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported revenue value %v", f)
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if !bytes.ContainsAny(b, ".e") {
		b = append(b, '.', '0')
	}
	return b, nil
}

type productRevenueJSON struct {
	Product string  `json:"product"`
	Revenue Revenue `json:"revenue"`
}

type reportJSON struct {
	RowCount       int                  `json:"row_count"`
	RegionsCount   int                  `json:"regions_count"`
	TopProducts    []productRevenueJSON `json:"top_n_products_by_revenue"`
	RollingRevenue map[string]*Revenue  `json:"rolling_7d_revenue_by_region"`
}

// MarshalJSON writes revenue amounts as Revenue. Collections left nil encode
// as [] and {}.
func (r Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		RowCount:       r.RowCount,
		RegionsCount:   r.RegionsCount,
		TopProducts:    make([]productRevenueJSON, 0, len(r.TopProducts)),
		RollingRevenue: make(map[string]*Revenue, len(r.RollingRevenue)),
	}
	for _, p := range r.TopProducts {
		out.TopProducts = append(out.TopProducts, productRevenueJSON{Product: p.Product, Revenue: Revenue(p.Revenue)})
	}
	for region, mean := range r.RollingRevenue {
		if mean == nil {
			out.RollingRevenue[region] = nil
			continue
		}
		v := Revenue(*mean)
		out.RollingRevenue[region] = &v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
