package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formats accepted by Write.
const (
	JSON  = "json"
	EDN   = "edn"
	Table = "table"
)

// Tabular is implemented by payloads that can render as a text table.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (payloads implementing Tabular; others fall back to pretty JSON)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Table:
		if t, ok := v.(Tabular); ok {
			return WriteTable(w, t)
		}
		return WriteJSON(w, v, true)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Valid reports whether format is accepted by Write.
func Valid(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON, EDN, Table:
		return true
	}
	return false
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
