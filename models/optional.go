package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalString distinguishes an omitted JSON key from an explicit null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ptr returns the trimmed value, or nil for null and blank strings.
func (o OptionalString) Ptr() *string {
	if o.Null {
		return nil
	}
	v := strings.TrimSpace(o.Value)
	if v == "" {
		return nil
	}
	return &v
}

// OptionalInt accepts either a JSON number or a numeric string, so that
// form posts and JSON clients can both send counters. Values that do not
// parse are kept in Raw with Valid unset and rejected by validation.
type OptionalInt struct {
	Set   bool
	Valid bool
	Value int
	Raw   string
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*o = OptionalInt{}
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		// an empty string is treated like an omitted field
		if raw == "" {
			*o = OptionalInt{}
			return nil
		}
	}
	o.Set = true
	o.Raw = raw
	v, err := strconv.Atoi(raw)
	if err != nil {
		o.Valid = false
		return nil
	}
	o.Valid = true
	o.Value = v
	return nil
}

// IntValue is a convenience constructor for a present counter.
func IntValue(v int) OptionalInt {
	return OptionalInt{Set: true, Valid: true, Value: v, Raw: strconv.Itoa(v)}
}

// StringValue is a convenience constructor for a present string.
func StringValue(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}
