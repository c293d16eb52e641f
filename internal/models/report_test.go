package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenue_MarshalJSON(t *testing.T) {
	tests := map[float64]string{
		100:     "100.0",
		0:       "0.0",
		-40:     "-40.0",
		14.5:    "14.5",
		9.75:    "9.75",
		1234.56: "1234.56",
		1e21:    "1e+21",
	}
	for in, want := range tests {
		got, err := json.Marshal(Revenue(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, string(got), in)
	}

	_, err := json.Marshal(Revenue(math.Inf(1)))
	assert.Error(t, err)
	_, err = json.Marshal(Revenue(math.NaN()))
	assert.Error(t, err)
}

func TestReport_MarshalJSON(t *testing.T) {
	mean := 150.0
	report := NewReport()
	report.RowCount = 2
	report.RegionsCount = 2
	report.TopProducts = append(report.TopProducts, ProductRevenue{Product: "<A&B>", Revenue: 100})
	report.RollingRevenue["North"] = &mean
	report.RollingRevenue["East"] = nil

	got, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"row_count": 2,
		"regions_count": 2,
		"top_n_products_by_revenue": [{"product": "<A&B>", "revenue": 100.0}],
		"rolling_7d_revenue_by_region": {"East": null, "North": 150.0}
	}`, string(got))
	assert.Contains(t, string(got), `"revenue":100.0`)
	assert.Contains(t, string(got), `"North":150.0`)
}

func TestReport_MarshalJSON_NilCollections(t *testing.T) {
	got, err := json.Marshal(Report{})
	require.NoError(t, err)
	assert.Equal(t, `{"row_count":0,"regions_count":0,"top_n_products_by_revenue":[],"rolling_7d_revenue_by_region":{}}`, string(got))
}
