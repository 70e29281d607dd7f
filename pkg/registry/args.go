package registry

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Has reports whether the argument was supplied (or defaulted).
func (c *Call) Has(name string) bool {
	v, ok := c.Args[name]
	return ok && v != nil
}

// String returns a string argument or "".
func (c *Call) String(name string) string {
	s, _ := c.Args[name].(string)
	return s
}

// Float returns a numeric argument as float64.
func (c *Call) Float(name string) float64 {
	switch v := c.Args[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns a numeric argument as int.
func (c *Call) Int(name string) int {
	switch v := c.Args[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a boolean argument.
func (c *Call) Bool(name string) bool {
	b, _ := c.Args[name].(bool)
	return b
}

// Floats returns a numeric list argument.
func (c *Call) Floats(name string) []float64 {
	switch v := c.Args[name].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, x := range v {
			switch n := x.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			}
		}
		return out
	}
	return nil
}

// Decode copies the arguments into a struct using `mapstructure` tags.
// Numeric kinds are converted weakly, so JSON float64 values fill int fields.
func (c *Call) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(c.Args); err != nil {
		return fmt.Errorf("decode %s arguments: %w", c.Operation.Name, err)
	}
	return nil
}
