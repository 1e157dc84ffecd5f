package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Wire field names used by the remote API. Validation errors are keyed by these.
const (
	FieldID     = "id"
	FieldName   = "nombre"
	FieldAge    = "edad"
	FieldSkills = "habilidades"
)

// ID is an opaque, server-assigned record identifier. The empty ID marks an unsaved record.
//
// The API may send ids as JSON strings or numbers; both decode to the same textual form.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON keeps numeric ids numeric so a backend that issued integers gets them back.
func (id ID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Developer is one record as returned by the API.
type Developer struct {
	ID     ID       `json:"id,omitempty"`
	Name   string   `json:"nombre"`
	Age    *float64 `json:"edad,omitempty"`
	Skills string   `json:"habilidades"`
}

type developerWire struct {
	ID     ID              `json:"id"`
	Name   string          `json:"nombre"`
	Age    json.RawMessage `json:"edad"`
	Skills string          `json:"habilidades"`
}

// UnmarshalJSON accepts edad as a number, a numeric string, an empty string or null.
func (d *Developer) UnmarshalJSON(b []byte) error {
	var w developerWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	age, err := decodeAge(w.Age)
	if err != nil {
		return err
	}
	*d = Developer{ID: w.ID, Name: w.Name, Age: age, Skills: w.Skills}
	return nil
}

func decodeAge(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return ParseAge(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("edad: %w", err)
	}
	return &f, nil
}

// ParseAge parses the text of an age field. Blank input means "absent".
func ParseAge(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := parseDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("edad: %q is not a number", s)
	}
	return &f, nil
}

// decimalPattern is plain decimal notation with an optional exponent. It leaves out
// what strconv also accepts: NaN, Inf, hex floats and underscores.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func parseDecimal(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

// FormatAge renders an optional age; absent renders as "".
func FormatAge(age *float64) string {
	if age == nil {
		return ""
	}
	return strconv.FormatFloat(*age, 'f', -1, 64)
}

// Form is the editable selection: every field is the raw text a user typed.
// The zero Form is the default, empty record.
type Form struct {
	ID     ID     `json:"id"`
	Name   string `json:"nombre"`
	Age    string `json:"edad"`
	Skills string `json:"habilidades"`
}

// FormFrom copies every field of d into a new form.
func FormFrom(d Developer) Form {
	return Form{
		ID:     d.ID,
		Name:   d.Name,
		Age:    FormatAge(d.Age),
		Skills: d.Skills,
	}
}

func (f Form) IsZero() bool { return f == Form{} }

// Developer converts a validated form into a record. It fails only on a non-numeric age.
func (f Form) Developer() (Developer, error) {
	age, err := ParseAge(f.Age)
	if err != nil {
		return Developer{}, err
	}
	return Developer{ID: f.ID, Name: f.Name, Age: age, Skills: f.Skills}, nil
}

// Set assigns one field by its wire name and reports whether the name was known.
func (f *Form) Set(field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldAge:
		f.Age = value
	case FieldSkills:
		f.Skills = value
	default:
		return false
	}
	return true
}

// Get returns one field by its wire name.
func (f Form) Get(field string) string {
	switch field {
	case FieldID:
		return f.ID.String()
	case FieldName:
		return f.Name
	case FieldAge:
		return f.Age
	case FieldSkills:
		return f.Skills
	default:
		return ""
	}
}

// FindByID returns the first record with the given id.
func FindByID(records []Developer, id ID) (Developer, bool) {
	for _, d := range records {
		if d.ID == id {
			return d, true
		}
	}
	return Developer{}, false
}
