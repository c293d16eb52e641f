package exporter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "sales-report/internal/errors"
	"sales-report/internal/models"
)

func ptr(v float64) *float64 { return &v }

func sampleReport() *models.Report {
	r := models.NewReport()
	r.RowCount = 4
	r.RegionsCount = 2
	r.TopProducts = []models.ProductRevenue{
		{Product: "A&B", Revenue: 100},
		{Product: "C", Revenue: 50.25},
	}
	r.RollingRevenue["North"] = ptr(150)
	r.RollingRevenue["East"] = nil
	return r
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	want := `{
  "row_count": 4,
  "regions_count": 2,
  "top_n_products_by_revenue": [
    {
      "product": "A&B",
      "revenue": 100.0
    },
    {
      "product": "C",
      "revenue": 50.25
    }
  ],
  "rolling_7d_revenue_by_region": {
    "East": null,
    "North": 150.0
  }
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, models.NewReport()))

	want := `{
  "row_count": 0,
  "regions_count": 0,
  "top_n_products_by_revenue": [],
  "rolling_7d_revenue_by_region": {}
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON_Deterministic(t *testing.T) {
	report := sampleReport()
	report.RollingRevenue["West"] = ptr(1.5)
	report.RollingRevenue["Central"] = ptr(2.5)

	var first, second bytes.Buffer
	require.NoError(t, WriteJSON(&first, report))
	require.NoError(t, WriteJSON(&second, report))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, WriteXLSX(sampleReport(), path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTopProducts, SheetRolling}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"metric", "value"},
		{"row_count", "4"},
		{"regions_count", "2"},
	}, summary)

	products, err := f.GetRows(SheetTopProducts)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []string{"1", "A&B", "100"}, products[1])
	assert.Equal(t, []string{"2", "C", "50.25"}, products[2])

	rolling, err := f.GetRows(SheetRolling)
	require.NoError(t, err)
	require.Len(t, rolling, 3)
	assert.Equal(t, "East", rolling[1][0])
	if len(rolling[1]) > 1 {
		assert.Empty(t, rolling[1][1])
	}
	assert.Equal(t, []string{"North", "150"}, rolling[2])
}

func TestWriteXLSX_BadPath(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be overwritten by the workbook.
	err := WriteXLSX(sampleReport(), dir, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExport))
}
