package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Field is a tri-state JSON value used by partial-update payloads. A field
// that never appeared in the request body has Set == false; an explicit JSON
// null has Set and Null; anything else has Set and a decoded Value. The
// distinction matters for updates: absent leaves a column unchanged while
// null clears it.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the body, so Set is
// always true here.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// MarshalJSON keeps Field symmetric for clients that round-trip inputs.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Number is a tri-state numeric field that tolerates the loose payloads the
// API accepts: JSON numbers and numeric strings both parse, while anything
// unparseable is recorded as present-but-invalid so validators can report a
// field error instead of the decoder rejecting the whole body.
type Number struct {
	Set   bool
	Null  bool
	Valid bool
	Value float64
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Null = true
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.Valid = true
		n.Value = f
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, perr := strconv.ParseFloat(s, 64); perr == nil {
			n.Valid = true
			n.Value = f
		}
		return nil
	}
	// Present but not numeric; left invalid for the validator to flag.
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null || !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// dateLayouts are tried in order when decoding DateTime values. Clients send
// either full RFC 3339 timestamps or bare dates from form inputs.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// DateTime is a tri-state timestamp field with the same
// present/null/invalid semantics as Number.
type DateTime struct {
	Set   bool
	Null  bool
	Valid bool
	Value time.Time
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	d.Set = true
	if string(b) == "null" {
		d.Null = true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Valid = true
			d.Value = t
			return nil
		}
	}
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if !d.Set || d.Null || !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}
