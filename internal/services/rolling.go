package services

import (
	"slices"
	"time"

	"sales-report/internal/models"
)

type regionDate struct {
	region string
	date   time.Time
}

// DailyRegionRevenue sums revenue per distinct (region, date) pair. Pairs are
// returned in the order they first occur in table.
func DailyRegionRevenue(table *models.Table) []models.DailyRevenue {
	index := make(map[regionDate]int)
	daily := make([]models.DailyRevenue, 0)

	for _, tx := range table.Transactions {
		if tx.Region == "" {
			continue
		}
		key := regionDate{region: tx.Region, date: tx.Date}
		i, ok := index[key]
		if !ok {
			i = len(daily)
			index[key] = i
			daily = append(daily, models.DailyRevenue{Region: tx.Region, Date: tx.Date})
		}
		daily[i].Revenue += tx.Revenue
	}
	return daily
}

// RollingMeans returns, for each point of a date-ascending series, the mean
// of every point whose date lies in (date-window, date]. For whole-day dates
// and a 7-day window that is the trailing span d-6 .. d, however many days
// inside it actually have data.
func RollingMeans(series []models.DailyRevenue, window time.Duration) []float64 {
	means := make([]float64, len(series))
	start := 0
	for i, point := range series {
		cutoff := point.Date.Add(-window)
		for start < i && !series[start].Date.After(cutoff) {
			start++
		}
		var sum float64
		for _, p := range series[start : i+1] {
			sum += p.Revenue
		}
		means[i] = sum / float64(i-start+1)
	}
	return means
}

// RollingRevenueByRegion evaluates the trailing window average at the latest
// date of every region, rounded to cents. A region without observations maps
// to nil.
func RollingRevenueByRegion(table *models.Table, window time.Duration) map[string]*float64 {
	byRegion := make(map[string][]models.DailyRevenue)
	for _, d := range DailyRegionRevenue(table) {
		byRegion[d.Region] = append(byRegion[d.Region], d)
	}

	result := make(map[string]*float64, len(byRegion))
	for region, series := range byRegion {
		slices.SortStableFunc(series, func(a, b models.DailyRevenue) int {
			return a.Date.Compare(b.Date)
		})

		means := RollingMeans(series, window)
		if len(means) == 0 {
			result[region] = nil
			continue
		}
		v := Round2(means[len(means)-1])
		result[region] = &v
	}
	return result
}
