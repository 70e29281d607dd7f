// Package schema provides the parameter type system used by operation descriptors.
//
// A Type validates values arriving in a caller's parameter bag (decoded JSON,
// so numbers are float64) and coerces raw strings extracted from resource URIs.
// Schemas map parameter names to types:
//
//	params := schema.Schema{
//	    "distance":  schema.Float(),
//	    "direction": schema.Enum("Normal", "Reverse", "Both"),
//	    "index":     schema.Int(),
//	}
//
//	if err := schema.ValidateFields(params, bag, "distance", "direction"); err != nil {
//	    first := schema.FirstInvalid(err) // the first failing field, in the order given
//	}
//
// Raw URI placeholders are coerced with Coerce:
//
//	values, err := schema.Coerce(schema.Schema{"index": schema.Int()}, map[string]string{"index": "2"})
//
// The package has no dependencies beyond the standard library.
package schema
