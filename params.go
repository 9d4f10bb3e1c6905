package changeset

import (
	"bytes"
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Params is an immutable snapshot of raw, untyped input. Construction always
// copies the caller's top-level structure, so the original is never mutated.
type Params map[string]any

// Paramser adapts framework-specific parameter wrappers (anything that can
// surrender an unsafe key/value view of itself) to this package.
type Paramser interface {
	Params() Params
}

// ParamsFromMap snapshots a plain map.
func ParamsFromMap(m map[string]any) Params {
	p := make(Params, len(m))
	for k, v := range m {
		p[k] = v
	}
	return p
}

// ParamsFromValues snapshots url.Values (HTML form / query-string input).
// The first value wins for multi-valued keys.
func ParamsFromValues(v url.Values) Params {
	p := make(Params, len(v))
	for k, vs := range v {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p
}

// JSONParams decodes a JSON object body into Params. Numbers are preserved
// as json.Number so integer input survives casting without precision loss.
func JSONParams(b []byte) (Params, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return Params(m), nil
}

// YAMLParams decodes a YAML mapping into Params. Keys that are not valid
// identifiers (non-scalar, non-textual) are skipped, not errors.
func YAMLParams(b []byte) (Params, error) {
	var raw map[any]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	p := make(Params, len(raw))
	for k, v := range raw {
		if ks, ok := identKey(k); ok {
			p[ks] = v
		}
	}
	return p, nil
}

// identKey converts a raw mapping key to a field identifier when possible.
func identKey(k any) (string, bool) {
	switch t := k.(type) {
	case string:
		return t, t != ""
	case fmt.Stringer:
		s := t.String()
		return s, s != ""
	default:
		return "", false
	}
}

// paramsOf normalizes any supported input container to a Params snapshot.
func paramsOf(input any) (Params, error) {
	switch t := input.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return ParamsFromMap(t), nil
	case map[string]any:
		return ParamsFromMap(t), nil
	case map[string]string:
		p := make(Params, len(t))
		for k, v := range t {
			p[k] = v
		}
		return p, nil
	case url.Values:
		return ParamsFromValues(t), nil
	case Paramser:
		return ParamsFromMap(t.Params()), nil
	default:
		return nil, Issues{{Code: CodeParseError, Message: fmt.Sprintf("unsupported input container %T", input)}}
	}
}
