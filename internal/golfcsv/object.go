package golfcsv

import (
	"bytes"
	"encoding/json"
)

// Object is a loosely-shaped JSON object as returned by the vendor API.
// Numbers are kept as json.Number so they pass through in their source form.
type Object map[string]any

func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*o = m
	return nil
}

// Lookup returns the value under key, a null or absent key is not found.
func (o Object) Lookup(key string) (Value, bool) {
	if o == nil {
		return Empty(), false
	}
	raw, ok := o[key]
	if !ok || raw == nil {
		return Empty(), false
	}
	return valueOf(raw), true
}

// Get is Lookup without the presence flag.
func (o Object) Get(key string) Value {
	v, _ := o.Lookup(key)
	return v
}

// Object returns the nested object under key, nil when absent or not an object.
func (o Object) Object(key string) Object {
	if o == nil {
		return nil
	}
	switch nested := o[key].(type) {
	case map[string]any:
		return nested
	case Object:
		return nested
	}
	return nil
}

// Objects returns the object elements of the array under key, skipping
// elements that are not objects.
func (o Object) Objects(key string) []Object {
	if o == nil {
		return nil
	}
	arr, ok := o[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(arr))
	for _, elem := range arr {
		switch nested := elem.(type) {
		case map[string]any:
			out = append(out, nested)
		case Object:
			out = append(out, nested)
		}
	}
	return out
}
