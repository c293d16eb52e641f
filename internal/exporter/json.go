package exporter

import (
	"encoding/json"
	"io"

	"sales-report/internal/models"
)

// WriteJSON encodes report to w followed by a newline. Strings are written
// without HTML escaping.
func WriteJSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}
