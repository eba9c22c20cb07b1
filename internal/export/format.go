package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/rcliao/wp-donor/internal/model"
)

// Output formats.
const (
	FormatDump   = "dump"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// ValidFormats are the accepted output formats.
var ValidFormats = map[string]bool{
	FormatDump:   true,
	FormatJSON:   true,
	FormatNDJSON: true,
}

// Write renders records to w. color only affects the dump format.
func Write(w io.Writer, format string, records []model.Record, color bool) error {
	switch format {
	case FormatDump:
		pp.ColoringEnabled = color
		_, err := pp.Fprintln(w, records)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("invalid format %q (valid: dump, json, ndjson)", format)
}
