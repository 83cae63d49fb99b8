package models

import (
	"bytes"
	"encoding/json"
)

// RawKind classifies the JSON shape of a flexible field as it arrived on the wire
type RawKind int

const (
	RawAbsent RawKind = iota // Field missing from the payload
	RawNull
	RawString
	RawObject
	RawArray
	RawOther // Number or boolean
)

func (k RawKind) String() string {
	switch k {
	case RawAbsent:
		return "absent"
	case RawNull:
		return "null"
	case RawString:
		return "string"
	case RawObject:
		return "object"
	case RawArray:
		return "array"
	default:
		return "other"
	}
}

// RawField holds a flexible field verbatim. Only the normalize package
// interprets it; everything past that boundary sees native structures.
type RawField struct {
	raw json.RawMessage
}

// RawBytes wraps an already-encoded JSON value
func RawBytes(b []byte) RawField {
	return RawField{raw: append(json.RawMessage(nil), bytes.TrimSpace(b)...)}
}

// RawFrom encodes v into a RawField. A nil v or an unencodable value yields an absent field.
func RawFrom(v any) RawField {
	if v == nil {
		return RawField{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return RawField{}
	}
	return RawField{raw: b}
}

// Kind reports the wire shape of the field
func (r RawField) Kind() RawKind {
	if len(r.raw) == 0 {
		return RawAbsent
	}
	switch r.raw[0] {
	case 'n':
		return RawNull
	case '"':
		return RawString
	case '{':
		return RawObject
	case '[':
		return RawArray
	default:
		return RawOther
	}
}

// Bytes returns the raw JSON encoding, nil when absent
func (r RawField) Bytes() []byte {
	return r.raw
}

func (r *RawField) UnmarshalJSON(b []byte) error {
	r.raw = append(r.raw[:0], bytes.TrimSpace(b)...)
	return nil
}

func (r RawField) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}
