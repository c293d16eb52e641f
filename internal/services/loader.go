package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "sales-report/internal/errors"
	"sales-report/internal/models"
	"sales-report/internal/observability"
)

const (
	colDate    = "date"
	colRegion  = "region"
	colProduct = "product"
	colUnits   = "units"
	colPrice   = "price"
)

var requiredColumns = []string{colDate, colRegion, colProduct, colUnits, colPrice}

// Accepted date forms, tried in order. Only year-first or named-month forms
// are listed here. Numeric dates with the year last go through
// parseYearLast, which reads them only when the day is unmistakable.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-1-2",
	"2006-1-2T15:04:05.999999999",
	"2006-1-2 15:04:05.999999999",
	"2006-1-2T15:04",
	"2006-1-2 15:04",
	"2006/01/02",
	"2006/1/2",
	"2006/1/2 15:04:05.999999999",
	"2006/1/2 15:04",
	"2006.01.02",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
}

var errNotYearLast = errors.New("not a numeric year-last date")

type columnIndex map[string]int

// LoadFromCSV opens filename and loads it with ReadCSV.
func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) (*models.Table, error) {
	ctx, span := observability.StartSpan(ctx, "load")
	span.SetTag("path", filename)
	defer span.End(a.logger)

	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appErr := apperrors.InputNotFoundWrap(err, "input file not found").WithDetails("path %s", filename)
			span.SetError(appErr)
			return nil, appErr
		}
		span.SetError(err)
		return nil, apperrors.InternalWrap(err, "open input file")
	}
	defer file.Close()

	a.logger.Info("processing CSV file", "filename", filename)

	table, err := a.ReadCSV(ctx, file)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	span.SetTag("rows", strconv.Itoa(table.Len()))
	return table, nil
}

// ReadCSV reads a header row followed by transaction rows and derives
// revenue for each. Any malformed value aborts the whole load.
func (a *Analytics) ReadCSV(ctx context.Context, r io.Reader) (*models.Table, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.Parse("missing header row")
	}
	if err != nil {
		return nil, readError(err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	progress := rate.Sometimes{Interval: a.progressInterval}
	table := &models.Table{Transactions: make([]models.Transaction, 0)}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		line, _ := reader.FieldPos(0)
		tx, err := parseTransaction(record, cols, line)
		if err != nil {
			return nil, err
		}

		table.Transactions = append(table.Transactions, tx)
		a.recordsProcessed.Add(1)

		progress.Do(func() {
			a.logger.Info("loading transactions", "records", len(table.Transactions), "line", line)
		})
	}

	duration := time.Since(start)
	a.logger.Info("csv processing complete",
		"records", len(table.Transactions),
		"duration", duration)

	return table, nil
}

func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.ParseWrap(err, "malformed CSV").WithDetails("line %d", parseErr.Line)
	}
	return apperrors.InternalWrap(err, "read input")
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Parse("missing required columns").WithDetails("%s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseTransaction(record []string, cols columnIndex, line int) (models.Transaction, error) {
	date, err := ParseDate(record[cols[colDate]])
	if err != nil {
		return models.Transaction{}, apperrors.ParseWrap(err, "invalid date").WithDetails("line %d column %q", line, colDate)
	}

	units, err := parseNumber(record[cols[colUnits]])
	if err != nil {
		return models.Transaction{}, apperrors.ParseWrap(err, "invalid units").WithDetails("line %d column %q", line, colUnits)
	}

	price, err := parseNumber(record[cols[colPrice]])
	if err != nil {
		return models.Transaction{}, apperrors.ParseWrap(err, "invalid price").WithDetails("line %d column %q", line, colPrice)
	}

	revenue := units * price
	if math.IsInf(revenue, 0) {
		return models.Transaction{}, apperrors.Parse("revenue out of range").WithDetails("line %d column %q", line, "revenue")
	}

	return models.Transaction{
		Date:    date,
		Region:  record[cols[colRegion]],
		Product: record[cols[colProduct]],
		Units:   units,
		Price:   price,
		Revenue: revenue,
	}, nil
}

// ParseDate accepts any of the unambiguous forms in dateLayouts, or a
// numeric day and month followed by the year, and returns the instant in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, ok := parseLayouts(value); ok {
		return t, nil
	}

	t, err := parseYearLast(value)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, errNotYearLast) {
		return time.Time{}, err
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseLayouts(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseYearLast reads "M/D/YYYY" and "D/M/YYYY" dates, with "/", "-" or "."
// between the fields and an optional time after a space. The field above 12
// is the day. When both fields are 12 or less the date is rejected.
func parseYearLast(value string) (time.Time, error) {
	datePart, clock, hasClock := strings.Cut(value, " ")

	sep := strings.IndexAny(datePart, "/-.")
	if sep < 0 {
		return time.Time{}, errNotYearLast
	}
	fields := strings.Split(datePart, datePart[sep:sep+1])
	if len(fields) != 3 || !isDigits(fields[0], 2) || !isDigits(fields[1], 2) || len(fields[2]) != 4 || !isDigits(fields[2], 4) {
		return time.Time{}, errNotYearLast
	}

	first, _ := strconv.Atoi(fields[0])
	second, _ := strconv.Atoi(fields[1])

	var month, dayOfMonth int
	switch {
	case first > 12 && second <= 12:
		dayOfMonth, month = first, second
	case second > 12 && first <= 12:
		month, dayOfMonth = first, second
	case first <= 12 && second <= 12:
		return time.Time{}, fmt.Errorf("ambiguous date %q: day and month cannot be told apart", value)
	default:
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}

	normalized := fmt.Sprintf("%s-%02d-%02d", fields[2], month, dayOfMonth)
	if hasClock {
		normalized += " " + strings.TrimSpace(clock)
	}
	if t, ok := parseLayouts(normalized); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func isDigits(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", value)
	}
	return f, nil
}
