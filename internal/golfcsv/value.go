package golfcsv

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindEmpty valueKind = iota
	kindText
	kindLiteral
)

// Value is a single resolved cell before escaping.
//
// Text values are subject to CSV quoting, literal values (numbers, booleans)
// are emitted exactly as given.
type Value struct {
	kind valueKind
	text string
}

// Empty is the value of a missing or malformed field.
func Empty() Value {
	return Value{}
}

// Text creates a string value.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// Literal creates a non-string value that is never quoted, the given text
// is the exact form written to the output.
func Literal(s string) Value {
	return Value{kind: kindLiteral, text: s}
}

func (v Value) IsEmpty() bool {
	return v.kind == kindEmpty
}

// String returns the unescaped textual form of the value.
func (v Value) String() string {
	return v.text
}

// Int interprets the value as a whole number.
func (v Value) Int() (int, bool) {
	if v.kind == kindEmpty {
		return 0, false
	}
	text := strings.TrimSpace(v.text)
	n, err := strconv.Atoi(text)
	if err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Float interprets the value as a number.
func (v Value) Float() (float64, bool) {
	if v.kind == kindEmpty {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// valueOf converts a decoded JSON value into a Value, null becomes Empty.
func valueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Empty()
	case string:
		return Text(v)
	case json.Number:
		return Literal(v.String())
	case bool:
		return Literal(strconv.FormatBool(v))
	case float64:
		return Literal(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return Literal(strconv.Itoa(v))
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return Empty()
		}
		return Text(strings.TrimRight(buf.String(), "\n"))
	}
}
