package toml

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Unmarshal parses data and decodes the result into v
func Unmarshal(data []byte, v any) error {
	raw, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return Decode(raw, v)
}

// Decode copies a parsed tree into v, which must be a non-nil pointer.
// Struct fields match their `toml` tag, else the field name; keys with no field are ignored.
func Decode(data any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("toml: decode target must be a non-nil pointer, got %T", v)
	}
	return decodeValue(data, val.Elem())
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func decodeValue(data any, val reflect.Value) error {
	if data == nil {
		return nil
	}

	if s, ok := data.(string); ok && val.CanAddr() && val.Addr().Type().Implements(textUnmarshalerType) {
		return val.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch val.Kind() {
	case reflect.Pointer:
		elem := reflect.New(val.Type().Elem())
		if err := decodeValue(data, elem.Elem()); err != nil {
			return err
		}
		val.Set(elem)

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		return decodeStruct(m, val)

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map key must be string, got %s", val.Type().Key())
		}
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		out := reflect.MakeMapWithSize(val.Type(), len(m))
		for k, item := range m {
			elem := reflect.New(val.Type().Elem()).Elem()
			if err := decodeValue(item, elem); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(val.Type().Key()), elem)
		}
		val.Set(out)

	case reflect.Slice:
		items, err := asSlice(data)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(val.Type(), len(items), len(items))
		for i, item := range items {
			if err := decodeValue(item, out.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		val.Set(out)

	case reflect.Interface:
		val.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return fmt.Errorf("expected integer, got %T", data)
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("integer %d overflows %s", n, val.Type())
		}
		val.SetInt(n)

	case reflect.Float32, reflect.Float64:
		switch f := data.(type) {
		case float64:
			if val.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
				return fmt.Errorf("float %g overflows float32", f)
			}
			val.SetFloat(f)
		case int64:
			val.SetFloat(float64(f))
		default:
			return fmt.Errorf("expected number, got %T", data)
		}

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", data)
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("expected boolean, got %T", data)
		}
		val.SetBool(b)

	default:
		return fmt.Errorf("unsupported target %s", val.Type())
	}
	return nil
}

func asSlice(data any) ([]any, error) {
	switch s := data.(type) {
	case []any:
		return s, nil
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected array, got %T", data)
}

func decodeStruct(data map[string]any, val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		key := field.Name
		if tag := field.Tag.Get("toml"); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}

		item, ok := data[key]
		if !ok {
			continue
		}
		if err := decodeValue(item, val.Field(i)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
