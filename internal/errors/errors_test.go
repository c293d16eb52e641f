package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := Parse("bad units")
	assert.Equal(t, "PARSE_ERROR: bad units", err.Error())

	wrapped := InputNotFoundWrap(fs.ErrNotExist, "open data.csv")
	assert.Contains(t, wrapped.Error(), "INPUT_NOT_FOUND: open data.csv")
	assert.Contains(t, wrapped.Error(), "caused by")
	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("load: %w", ParseWrap(stderrors.New("x"), "line 2"))

	assert.True(t, Is(err, CodeParse))
	assert.False(t, Is(err, CodeInputNotFound))
	assert.False(t, Is(stderrors.New("plain"), CodeParse))
	assert.False(t, Is(nil, CodeParse))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", stderrors.New("boom"), 1},
		{"internal", Internal("boom"), 1},
		{"input not found", InputNotFound("missing"), 2},
		{"parse", Parse("bad"), 3},
		{"config", ConfigWrap(stderrors.New("x"), "bad"), 4},
		{"export", ExportWrap(stderrors.New("x"), "bad"), 5},
		{"wrapped parse", fmt.Errorf("run: %w", Parse("bad")), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestWithDetails(t *testing.T) {
	err := Parse("invalid date").WithDetails("line %d column %q", 4, "date")
	assert.Equal(t, `line 4 column "date"`, err.Details)
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Log(logger, "report failed", Parse("bad price"))
	assert.Contains(t, buf.String(), "error_code=PARSE_ERROR")
	assert.Contains(t, buf.String(), "exit_code=3")

	buf.Reset()
	Log(logger, "report failed", stderrors.New("disk on fire"))
	assert.Contains(t, buf.String(), "error_code=INTERNAL_ERROR")
}
