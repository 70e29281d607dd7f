package schema

import (
	"testing"
)

func TestValidateFields_Success(t *testing.T) {
	schema := Schema{
		"plane":    String(),
		"sides":    Int(),
		"distance": Float(),
		"save":     Bool(),
		"points":   Slice(Float()),
	}

	data := map[string]any{
		"plane":    "Top",
		"sides":    float64(6),
		"distance": 0.05,
		"save":     true,
		"points":   []any{0.0, 0.1},
	}

	if err := ValidateFields(schema, data, "plane", "sides", "distance", "save", "points"); err != nil {
		t.Errorf("ValidateFields() error = %v, want nil", err)
	}
}

func TestValidateFields_MissingField(t *testing.T) {
	schema := Schema{
		"plane":    String(),
		"distance": Float(),
	}

	err := ValidateFields(schema, map[string]any{"plane": "Top"}, "plane", "distance")
	if err == nil {
		t.Fatal("ValidateFields() should return error for missing field")
	}

	first := FirstInvalid(err)
	if first == nil {
		t.Fatalf("FirstInvalid() = nil for %v", err)
	}
	if first.Key != "distance" || !first.Missing {
		t.Errorf("FirstInvalid() = %+v, want missing distance", first)
	}
}

func TestValidateFields_NullCountsAsMissing(t *testing.T) {
	err := ValidateFields(Schema{"distance": Float()}, map[string]any{"distance": nil}, "distance")
	first := FirstInvalid(err)
	if first == nil || !first.Missing {
		t.Errorf("FirstInvalid() = %+v, want missing", first)
	}
}

func TestValidateFields_ReportsInGivenOrder(t *testing.T) {
	schema := Schema{
		"x1": Float(),
		"y1": Float(),
		"x2": Float(),
		"y2": Float(),
	}

	err := ValidateFields(schema, map[string]any{"x1": 0.0}, "x1", "y1", "x2", "y2")
	errs := ValidationErrors(err)
	if len(errs) != 3 {
		t.Fatalf("ValidationErrors() = %d errors, want 3", len(errs))
	}
	if first := FirstInvalid(err); first.Key != "y1" {
		t.Errorf("FirstInvalid().Key = %q, want y1", first.Key)
	}
}

func TestValidateFields_TypeMismatch(t *testing.T) {
	err := ValidateFields(Schema{"distance": Float()}, map[string]any{"distance": "far"}, "distance")
	first := FirstInvalid(err)
	if first == nil {
		t.Fatal("FirstInvalid() = nil")
	}
	if first.Missing {
		t.Error("type mismatch reported as missing")
	}
	if first.Value != "far" {
		t.Errorf("Value = %v, want far", first.Value)
	}
}

func TestValidateFields_UndefinedField(t *testing.T) {
	err := ValidateFields(Schema{}, map[string]any{"x": 1}, "x")
	first := FirstInvalid(err)
	if first == nil || first.Reason != "not defined in schema" {
		t.Errorf("FirstInvalid() = %+v", first)
	}
}

func TestValidateFields_Empty(t *testing.T) {
	if err := ValidateFields(Schema{"x": Int()}, nil); err != nil {
		t.Errorf("ValidateFields() with no fields error = %v", err)
	}
}

func TestSchemaCoerce(t *testing.T) {
	values, err := Coerce(Schema{"face": Int(), "edge": Int()}, map[string]string{"face": "1", "edge": "4", "extra": "kept"})
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	if values["face"] != 1 || values["edge"] != 4 || values["extra"] != "kept" {
		t.Errorf("Coerce() = %v", values)
	}

	_, err = Coerce(Schema{"density": Float()}, map[string]string{"density": "steel"})
	first := FirstInvalid(err)
	if first == nil || first.Key != "density" {
		t.Errorf("FirstInvalid() = %+v, want density", first)
	}
}

func TestAggregateError_String(t *testing.T) {
	err := &AggregateError{Errors: []error{
		&ValidationError{Key: "a", Reason: "required"},
		&ValidationError{Key: "b", Reason: "expected int", Value: "x"},
	}}
	want := "2 validation errors:\n  1. field \"a\": required\n  2. field \"b\": expected int (got string)\n"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
