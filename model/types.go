package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// ErrMissingKey is returned when a record carries neither "key" nor "label".
var ErrMissingKey = errors.New("model: record without key")

// Key is the stable identifier of a row (e.g. a country code).
type Key string

// Keys converts strings to keys.
func Keys(s ...string) []Key {
	out := make([]Key, len(s))
	for i, v := range s {
		out[i] = Key(v)
	}
	return out
}

// Provenance records the gesture that produced a selection.
type Provenance string

const (
	// ProvenanceNone marks an empty selection that was never committed.
	ProvenanceNone Provenance = ""
	// ProvenancePoint is a single discrete click.
	ProvenancePoint Provenance = "point"
	// ProvenanceSet is an explicit key list (e.g. pushed by a host or a table).
	ProvenanceSet Provenance = "set"
	// ProvenanceRange is the terminal tick of a range-selection gesture.
	ProvenanceRange Provenance = "range"
	// ProvenanceBlock is a categorical block (e.g. every row of one category).
	ProvenanceBlock Provenance = "block"
)

// Valid reports whether p is one of the known provenances.
func (p Provenance) Valid() bool {
	switch p {
	case ProvenancePoint, ProvenanceSet, ProvenanceRange, ProvenanceBlock:
		return true
	default:
		return false
	}
}

// Row is one entity at one time index.
//
// Rows are immutable once issued: callers must not mutate Values.
type Row struct {
	Key Key
	// Label is the time label the row was derived for.
	Label string
	// Values holds the numeric value per dimension.
	Values map[string]float64
	// Category is a categorical label used for block selection and
	// category highlight. Derived rows carry their dominant dimension.
	Category string
}

// Value returns the value of dim and whether the row carries it.
func (r Row) Value(dim string) (float64, bool) {
	v, ok := r.Values[dim]
	return v, ok
}

// MarshalJSON encodes the row as a flat object: key first, then dimensions in
// lexical order. Label and Category are in-process metadata and are not
// encoded.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, "key", string(r.Key))

	dims := make([]string, 0, len(r.Values))
	for d := range r.Values {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	for _, d := range dims {
		name, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		v := r.Values[d]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		num, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(num)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat row object. "label" and "category" fields are
// accepted as metadata; every other field is a dimension value.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Row{Values: make(map[string]float64, len(raw))}
	for name, msg := range raw {
		switch name {
		case "key":
			var k string
			if err := json.Unmarshal(msg, &k); err != nil {
				return fmt.Errorf("row key: %w", err)
			}
			out.Key = Key(k)
		case "label":
			if err := json.Unmarshal(msg, &out.Label); err != nil {
				return fmt.Errorf("row label: %w", err)
			}
		case "category":
			if err := json.Unmarshal(msg, &out.Category); err != nil {
				return fmt.Errorf("row category: %w", err)
			}
		default:
			var v *float64
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("row value %q: %w", name, err)
			}
			if v == nil {
				out.Values[name] = math.NaN()
				continue
			}
			out.Values[name] = *v
		}
	}
	*r = out
	return nil
}

func writeField(buf *bytes.Buffer, name, value string) {
	n, _ := json.Marshal(name)
	v, _ := json.Marshal(value)
	buf.Write(n)
	buf.WriteByte(':')
	buf.Write(v)
}

// Record is one entity across all time indices.
//
// Series[dim][i] is the value of dim at time index i. Missing values are NaN.
type Record struct {
	Key    Key
	Series map[string][]float64
	// Attrs holds categorical fields carried by the source (e.g. region).
	Attrs map[string]string
}

// At returns the value of dim at index i, or NaN when absent.
func (r Record) At(dim string, i int) float64 {
	s := r.Series[dim]
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// MarshalJSON encodes the record flat: {"key":..,"<dim>":[..],"<attr>":".."}.
func (r Record) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Series)+len(r.Attrs)+1)
	for k, v := range r.Attrs {
		obj[k] = v
	}
	for dim, s := range r.Series {
		vals := make([]*float64, len(s))
		for i := range s {
			if math.IsNaN(s[i]) || math.IsInf(s[i], 0) {
				continue
			}
			v := s[i]
			vals[i] = &v
		}
		obj[dim] = vals
	}
	obj["key"] = string(r.Key)
	return json.Marshal(obj)
}

// UnmarshalJSON accepts "key" or "label" as the identifier, numeric arrays
// as series (null entries become NaN) and strings as attributes.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Record{Series: make(map[string][]float64), Attrs: make(map[string]string)}

	idField := "key"
	if _, ok := raw[idField]; !ok {
		idField = "label"
	}
	if msg, ok := raw[idField]; ok {
		var k string
		if err := json.Unmarshal(msg, &k); err != nil {
			return fmt.Errorf("record %s: %w", idField, err)
		}
		out.Key = Key(k)
	}

	for name, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if name == idField || len(msg) == 0 {
			continue
		}
		switch {
		case msg[0] == '[':
			var vals []*float64
			if err := json.Unmarshal(msg, &vals); err != nil {
				return fmt.Errorf("record series %q: %w", name, err)
			}
			s := make([]float64, len(vals))
			for i, v := range vals {
				if v == nil {
					s[i] = math.NaN()
					continue
				}
				s[i] = *v
			}
			out.Series[name] = s
		case msg[0] == '"':
			var v string
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("record attr %q: %w", name, err)
			}
			out.Attrs[name] = v
		}
	}
	if out.Key == "" {
		return ErrMissingKey
	}
	*r = out
	return nil
}

// Pack is the data pack consumed from the host.
type Pack struct {
	TimeLabels []string `json:"timeLabels"`
	Dimensions []string `json:"dimensions"`
	Records    []Record `json:"records"`
}

// Empty reports whether the pack cannot produce any row.
func (p *Pack) Empty() bool {
	return p == nil || len(p.TimeLabels) == 0 || len(p.Dimensions) == 0 || len(p.Records) == 0
}

// HasDimension reports whether dim is one of the pack's dimensions.
func (p *Pack) HasDimension(dim string) bool {
	return p != nil && slices.Contains(p.Dimensions, dim)
}

// LabelIndex returns the index of label, or -1.
func (p *Pack) LabelIndex(label string) int {
	if p == nil {
		return -1
	}
	return slices.Index(p.TimeLabels, label)
}

// UnmarshalJSON accepts the legacy "years" and "dims" field names as aliases
// for "timeLabels" and "dimensions". Years may be numbers or strings.
func (p *Pack) UnmarshalJSON(data []byte) error {
	var raw struct {
		TimeLabels []string          `json:"timeLabels"`
		Years      []json.RawMessage `json:"years"`
		Dimensions []string          `json:"dimensions"`
		Dims       []string          `json:"dims"`
		Records    []Record          `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Pack{TimeLabels: raw.TimeLabels, Dimensions: raw.Dimensions, Records: raw.Records}
	if len(out.TimeLabels) == 0 {
		for _, y := range raw.Years {
			out.TimeLabels = append(out.TimeLabels, strings.Trim(string(bytes.TrimSpace(y)), `"`))
		}
	}
	if len(out.Dimensions) == 0 {
		out.Dimensions = raw.Dims
	}
	*p = out
	return nil
}
