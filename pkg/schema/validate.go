package schema

// Schema is a map of field names to their expected types.
// Example: {"distance": Float(), "index": Int(), "planes": Slice(String())}
type Schema map[string]Type

// ValidateFields validates only specific fields from data against the schema,
// reporting failures in the order the fields are given.
// Missing fields are treated as an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}
		if err := validateField(fieldName, fieldType, data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

func validateField(name string, typ Type, data map[string]any) error {
	value, exists := data[name]
	if !exists || value == nil {
		return &ValidationError{Key: name, Reason: "required", Missing: true}
	}
	if err := typ.Validate(value); err != nil {
		return &ValidationError{Key: name, Reason: err.Error(), Value: value}
	}
	return nil
}

// Coerce converts raw string values (e.g., URI placeholders) using the schema.
// Keys without a declared type are passed through as strings.
func Coerce(schema Schema, raw map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	var errs []error
	for key, value := range raw {
		typ, ok := schema[key]
		if !ok {
			out[key] = value
			continue
		}
		v, err := typ.Coerce(value)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
			continue
		}
		out[key] = v
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return out, nil
}
