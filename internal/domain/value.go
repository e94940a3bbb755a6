package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindBool
	KindNumber
	KindText
)

// Value is the tagged variant for telemetry values. Upstream delivers an
// untyped union (boolean | number | string | null); the union is resolved
// into a kind once, at JSON decode time, so everything downstream can switch
// exhaustively instead of probing interface{}.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
}

func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, n: n} }
func TextValue(s string) Value    { return Value{kind: KindText, s: s} }
func AbsentValue() Value          { return Value{kind: KindAbsent} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Bool returns the boolean payload; ok is false for any other kind.
func (v Value) Bool() (value, ok bool) {
	return v.b, v.kind == KindBool
}

// Number returns the numeric payload; ok is false for any other kind.
func (v Value) Number() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// Text returns the string payload; ok is false for any other kind.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindText
}

// String renders the transport form: booleans as "true"/"false", numbers in
// their decimal form, text as-is. Absent renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = AbsentValue()
		return nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case bool:
		*v = BoolValue(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return fmt.Errorf("non-finite number %q: %w", t.String(), err)
		}
		*v = NumberValue(n)
	case string:
		*v = TextValue(t)
	default:
		return fmt.Errorf("unsupported telemetry value %s", string(data))
	}
	return nil
}
