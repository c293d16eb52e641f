package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"

	apperrors "sales-report/internal/errors"
	"sales-report/internal/models"
)

const (
	SheetSummary     = "Summary"
	SheetTopProducts = "TopProducts"
	SheetRolling     = "Rolling7d"
)

// WriteXLSX saves report as a workbook at path, creating parent directories
// as needed. Regions without a rolling value get an empty cell.
func WriteXLSX(report *models.Report, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeWorkbook(f, report); err != nil {
		return apperrors.ExportWrap(err, "build workbook").WithDetails("path %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.ExportWrap(err, "create export directory").WithDetails("path %s", path)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.ExportWrap(err, "save workbook").WithDetails("path %s", path)
	}

	logger.Info("wrote xlsx report",
		"path", path,
		"products", len(report.TopProducts),
		"regions", len(report.RollingRevenue))
	return nil
}

func writeWorkbook(f *excelize.File, report *models.Report) error {
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	summary := [][]any{
		{"metric", "value"},
		{"row_count", report.RowCount},
		{"regions_count", report.RegionsCount},
	}
	if err := setRows(f, SheetSummary, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetTopProducts); err != nil {
		return err
	}
	products := [][]any{{"rank", "product", "revenue"}}
	for i, p := range report.TopProducts {
		products = append(products, []any{i + 1, p.Product, p.Revenue})
	}
	if err := setRows(f, SheetTopProducts, products); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetRolling); err != nil {
		return err
	}
	regions := make([]string, 0, len(report.RollingRevenue))
	for region := range report.RollingRevenue {
		regions = append(regions, region)
	}
	slices.Sort(regions)

	rolling := [][]any{{"region", "rolling_7d_revenue"}}
	for _, region := range regions {
		var value any
		if v := report.RollingRevenue[region]; v != nil {
			value = *v
		}
		rolling = append(rolling, []any{region, value})
	}
	return setRows(f, SheetRolling, rolling)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
