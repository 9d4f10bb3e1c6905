package changeset

import (
	"strings"
	"sync"
)

// Normalizer is a pure value transform applied after casting and before any
// diff or validation logic observes the value.
type Normalizer func(v any) any

// NormalizerID names a registered normalizer in a schema declaration.
type NormalizerID string

// Built-in normalizer ids.
const (
	Strip      NormalizerID = "strip"
	Squish     NormalizerID = "squish"
	Downcase   NormalizerID = "downcase"
	Upcase     NormalizerID = "upcase"
	BlankToNil NormalizerID = "blank_to_nil"
)

var (
	normMu       sync.RWMutex
	normRegistry = map[NormalizerID]Normalizer{
		Strip: func(v any) any {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
			return v
		},
		Squish: func(v any) any {
			if s, ok := v.(string); ok {
				return strings.Join(strings.Fields(s), " ")
			}
			return v
		},
		Downcase: func(v any) any {
			if s, ok := v.(string); ok {
				return strings.ToLower(s)
			}
			return v
		},
		Upcase: func(v any) any {
			if s, ok := v.(string); ok {
				return strings.ToUpper(s)
			}
			return v
		},
		BlankToNil: func(v any) any {
			switch t := v.(type) {
			case nil:
				return nil
			case string:
				if strings.TrimSpace(t) == "" {
					return nil
				}
			}
			return v
		},
	}
)

// RegisterNormalizer installs (or replaces) a named normalizer. Registration
// is expected at program init, before schemas referencing the id are built.
func RegisterNormalizer(id NormalizerID, fn Normalizer) {
	if id == "" || fn == nil {
		panic(&ConfigError{Msg: "RegisterNormalizer requires a non-empty id and a function"})
	}
	normMu.Lock()
	normRegistry[id] = fn
	normMu.Unlock()
}

// LookupNormalizer resolves an id to its registered transform.
func LookupNormalizer(id NormalizerID) (Normalizer, bool) {
	normMu.RLock()
	fn, ok := normRegistry[id]
	normMu.RUnlock()
	return fn, ok
}
