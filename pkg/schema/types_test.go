package schema

import (
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"Top", false},
		{"", false},
		{42, true},
		{3.14, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntType(t *testing.T) {
	typ := Int()

	if typ.JSONType() != "integer" {
		t.Errorf("JSONType() = %q, want integer", typ.JSONType())
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int64(42), false},
		{float64(2), false},  // whole number from JSON
		{float64(2.5), true}, // not whole
		{"2", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestFloatType(t *testing.T) {
	typ := Float()

	for _, v := range []any{0.05, float32(1), 3, int64(7)} {
		if err := typ.Validate(v); err != nil {
			t.Errorf("Validate(%v) unexpected error: %v", v, err)
		}
	}
	for _, v := range []any{"0.05", true, nil} {
		if err := typ.Validate(v); err == nil {
			t.Errorf("Validate(%v) expected error", v)
		}
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("Normal", "Reverse", "Both")

	if err := typ.Validate("Reverse"); err != nil {
		t.Errorf("Validate(Reverse) unexpected error: %v", err)
	}
	if err := typ.Validate("Sideways"); err == nil {
		t.Error("Validate(Sideways) expected error")
	}
	if err := typ.Validate(1); err == nil {
		t.Error("Validate(1) expected error")
	}
	if typ.JSONType() != "string" {
		t.Errorf("JSONType() = %q, want string", typ.JSONType())
	}
	if got := typ.(*EnumType).Values(); len(got) != 3 || got[0] != "Normal" {
		t.Errorf("Values() = %v", got)
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(Float())

	if typ.Name() != "[float]" {
		t.Errorf("Name() = %q, want [float]", typ.Name())
	}
	if err := typ.Validate([]any{0.1, 0.2, 3}); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := typ.Validate([]any{0.1, "x"}); err == nil {
		t.Error("Validate() expected error for mixed slice")
	}
	if err := typ.Validate(0.1); err == nil {
		t.Error("Validate() expected error for scalar")
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		raw     string
		want    any
		wantErr bool
	}{
		{"string", String(), "Extrude 1", "Extrude 1", false},
		{"int", Int(), "3", 3, false},
		{"int spaces", Int(), " 3 ", 3, false},
		{"int bad", Int(), "three", nil, true},
		{"float", Float(), "7850.5", 7850.5, false},
		{"float bad", Float(), "heavy", nil, true},
		{"bool", Bool(), "true", true, false},
		{"bool bad", Bool(), "maybe", nil, true},
		{"enum", Enum("Top", "Front"), "Front", "Front", false},
		{"enum bad", Enum("Top", "Front"), "Back", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Coerce(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Coerce(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Coerce(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestSliceCoerce(t *testing.T) {
	got, err := Slice(Int()).Coerce("1,2,3")
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	values := got.([]any)
	if len(values) != 3 || values[2] != 3 {
		t.Errorf("Coerce() = %v", values)
	}

	if _, err := Slice(Int()).Coerce("1,x"); err == nil {
		t.Error("Coerce() expected error for bad element")
	}
}
