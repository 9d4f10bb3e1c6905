package changeset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Type converts a raw input value into a field's declared representation.
// Casting nil must always yield nil, regardless of the target type.
// Implementations are pluggable; any Type may appear in a FieldDef.
type Type interface {
	Name() string
	Cast(v any) (any, error)
}

// String returns the string type. Any non-textual value is stringified.
func String() Type { return stringType{} }

// Int returns the integer type (cast result is int64). It accepts existing
// numeric values and textual values parseable as a base-10 integer.
func Int() Type { return intType{} }

// Float returns the floating-point type (cast result is float64).
func Float() Type { return floatType{} }

// Bool returns the boolean type. Textual input goes through strconv.ParseBool.
func Bool() Type { return boolType{} }

// Time returns the timestamp type (cast result is time.Time). Textual input
// is parsed as RFC3339, trailing nanoseconds optional.
func Time() Type { return timeType{} }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Cast(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return fmt.Sprint(t), nil
	}
}

type intType struct{}

func (intType) Name() string { return "integer" }

func (t intType) Cast(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, &CastError{Value: v, Type: t.Name()}
		}
		return int64(n), nil
	case float32:
		return t.fromFloat(v, float64(n))
	case float64:
		return t.fromFloat(v, n)
	case json.Number:
		i64, err := n.Int64()
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return i64, nil
	case string:
		i64, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return i64, nil
	default:
		return nil, &CastError{Value: v, Type: t.Name()}
	}
}

func (t intType) fromFloat(raw any, f float64) (any, error) {
	if math.Trunc(f) != f || f < math.MinInt64 || f > math.MaxInt64 {
		return nil, &CastError{Value: raw, Type: t.Name()}
	}
	return int64(f), nil
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (t floatType) Cast(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		f64, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return f64, nil
	case string:
		f64, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return f64, nil
	default:
		return nil, &CastError{Value: v, Type: t.Name()}
	}
}

type boolType struct{}

func (boolType) Name() string { return "boolean" }

func (t boolType) Cast(v any) (any, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return parsed, nil
	default:
		return nil, &CastError{Value: v, Type: t.Name()}
	}
}

type timeType struct{}

func (timeType) Name() string { return "time" }

func (t timeType) Cast(v any) (any, error) {
	switch ts := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return ts, nil
	case string:
		parsed, err := parseRFC3339(strings.TrimSpace(ts))
		if err != nil {
			return nil, &CastError{Value: v, Type: t.Name(), Cause: err}
		}
		return parsed, nil
	default:
		return nil, &CastError{Value: v, Type: t.Name()}
	}
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
