package memory

import (
	"fmt"
)

// argument accessors tolerate both Go-native and JSON-decoded values.

func argFloat(method string, args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fault(method, "missing argument %d", i)
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fault(method, "argument %d: expected number, got %T", i, args[i])
}

func argInt(method string, args []any, i int) (int, error) {
	f, err := argFloat(method, args, i)
	return int(f), err
}

func argString(method string, args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fault(method, "missing argument %d", i)
	}
	switch v := args[i].(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fault(method, "argument %d: expected string, got %T", i, args[i])
}

func optString(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}

func optBool(args []any, i int) bool {
	if i >= len(args) {
		return false
	}
	b, _ := args[i].(bool)
	return b
}

func floats(method string, args []any, from, n int) ([]float64, error) {
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		v, err := argFloat(method, args, from+k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
