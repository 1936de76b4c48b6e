package data

import (
	"fmt"
	"math"
)

// Error returned by the typed getters when a key is present but holds the wrong kind of value.
type TypeError struct {
	Key      string
	Expected string
	Got      any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %s", e.Key, e.Expected, TypeName(e.Got))
}

// Short human-readable name for the kind of a generic value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// The typed getters below all return (value, present, error). A missing key is not an error.

func (o *Object) GetString(key string) (string, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, &TypeError{Key: key, Expected: "string", Got: v}
	}
	return s, true, nil
}

func (o *Object) GetInt(key string) (int64, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false, nil
	}
	i, ok := AsInt(v)
	if !ok {
		return 0, true, &TypeError{Key: key, Expected: "integer", Got: v}
	}
	return i, true, nil
}

func (o *Object) GetBool(key string) (bool, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, &TypeError{Key: key, Expected: "boolean", Got: v}
	}
	return b, true, nil
}

func (o *Object) GetObject(key string) (*Object, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false, nil
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, true, &TypeError{Key: key, Expected: "object", Got: v}
	}
	return obj, true, nil
}

func (o *Object) GetList(key string) ([]any, bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, true, &TypeError{Key: key, Expected: "array", Got: v}
	}
	return l, true, nil
}

func (o *Object) GetStringList(key string) ([]string, bool, error) {
	l, ok, err := o.GetList(key)
	if !ok || err != nil {
		return nil, ok, err
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		s, ok := v.(string)
		if !ok {
			return nil, true, &TypeError{Key: key, Expected: "array of strings", Got: v}
		}
		out = append(out, s)
	}
	return out, true, nil
}

func (o *Object) GetIntList(key string) ([]int64, bool, error) {
	l, ok, err := o.GetList(key)
	if !ok || err != nil {
		return nil, ok, err
	}
	out := make([]int64, 0, len(l))
	for _, v := range l {
		i, ok := AsInt(v)
		if !ok {
			return nil, true, &TypeError{Key: key, Expected: "array of integers", Got: v}
		}
		out = append(out, i)
	}
	return out, true, nil
}

// Converts a generic numeric value to an integer, if it has no fractional part.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
