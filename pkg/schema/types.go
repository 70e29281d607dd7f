package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// JSONType returns the JSON Schema type keyword ("string", "number", ...).
	JSONType() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Coerce converts a raw string (e.g., a URI placeholder) into a value of this type.
	Coerce(raw string) (any, error)
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string     { return "string" }
func (t *StringType) JSONType() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

func (t *StringType) Coerce(raw string) (any, error) { return raw, nil }

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string     { return "int" }
func (t *IntType) JSONType() string { return "integer" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

func (t *IntType) Coerce(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("expected int, got %q", raw)
	}
	return n, nil
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string     { return "float" }
func (t *FloatType) JSONType() string { return "number" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

func (t *FloatType) Coerce(raw string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("expected float, got %q", raw)
	}
	return f, nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string     { return "bool" }
func (t *BoolType) JSONType() string { return "boolean" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

func (t *BoolType) Coerce(raw string) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("expected bool, got %q", raw)
	}
	return b, nil
}

// EnumType validates strings drawn from a closed set.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string     { return "enum(" + strings.Join(t.values, "|") + ")" }
func (t *EnumType) JSONType() string { return "string" }

// Values returns the accepted values in declaration order.
func (t *EnumType) Values() []string { return append([]string(nil), t.values...) }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("expected one of %v, got %q", t.values, s)
}

func (t *EnumType) Coerce(raw string) (any, error) {
	if err := t.Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) JSONType() string { return "array" }

// Elem returns the element type.
func (t *SliceType) Elem() Type { return t.elemType }

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	// Validate each element
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Coerce splits raw on commas and coerces each element.
func (t *SliceType) Coerce(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return []any{}, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for i, part := range parts {
		v, err := t.elemType.Coerce(part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Enum creates a validator accepting only the given strings.
func Enum(values ...string) Type { return &EnumType{values: values} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}
