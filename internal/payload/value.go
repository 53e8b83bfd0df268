// Package payload models provider-defined JSON documents as a tree of
// values and probes them for well-known fields.
package payload

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// Kind identifies the shape of a Value.
type Kind int

// Value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is one node of a JSON document. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []Value
	fields map[string]Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{kind: Null} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumberValue wraps an integer.
func NumberValue(n int) Value { return Value{kind: Number, num: json.Number(strconv.Itoa(n))} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// ArrayValue wraps items.
func ArrayValue(items ...Value) Value { return Value{kind: Array, items: items} }

// ObjectValue wraps fields.
func ObjectValue(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: Object, fields: fields}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Field returns the named member of an object. ok is false for missing
// members and for non-objects.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Items returns the elements of an array, or nil.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.items
}

// Str returns the string content for String values, "" otherwise.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.str
}

// Status returns the top-level "status" string of an object payload.
func (v Value) Status() string {
	s, _ := v.Field("status")
	return s.Str()
}

// Scalar renders a non-empty scalar as text. Empty strings, zero, false,
// null and containers report ok=false.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case String:
		return v.str, v.str != ""
	case Number:
		if f, err := v.num.Float64(); err == nil && f == 0 {
			return "", false
		}
		return v.num.String(), true
	case Bool:
		if v.b {
			return "true", true
		}
	}
	return "", false
}

// MarshalJSON encodes the tree back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Bool:
		return json.Marshal(v.b)
	case Number:
		return []byte(v.num.String()), nil
	case String:
		return json.Marshal(v.str)
	case Array:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case Object:
		return json.Marshal(v.fields)
	}
	return []byte("null"), nil
}

// Parse decodes a JSON document into a Value.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, eris.Wrap(err, "payload: decode")
	}
	if dec.More() {
		return Value{}, eris.New("payload: trailing data after document")
	}
	return fromAny(raw), nil
}

// ParseOrRaw decodes data, wrapping a non-JSON body as {"raw": text}.
func ParseOrRaw(data []byte) Value {
	v, err := Parse(data)
	if err != nil {
		return ObjectValue(map[string]Value{"raw": StringValue(string(data))})
	}
	return v
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case bool:
		return BoolValue(t)
	case json.Number:
		return Value{kind: Number, num: t}
	case string:
		return StringValue(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromAny(item)
		}
		return ArrayValue(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = fromAny(item)
		}
		return ObjectValue(fields)
	}
	return NullValue()
}
