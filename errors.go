package changeset

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
	CodeParseError  = "parse_error"
)

// Issue represents a single validation entry keyed by field name.
type Issue struct {
	Field   string // Declared attribute name; empty for input-level issues.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the rule name that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required on name
		fmt.Fprintf(b, "%s on %s", it.Code, it.Field)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ByField collapses the collection into the field name -> message list
// mapping consumed by host applications.
func (iss Issues) ByField() map[string][]string {
	if len(iss) == 0 {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(iss))
	for _, it := range iss {
		out[it.Field] = append(out[it.Field], it.Message)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// CastError reports a raw value that could not be converted to its declared
// type. Cast failures never abort changeset construction; they surface as a
// field-level Issue so invalid input still yields an inspectable changeset.
type CastError struct {
	Field string // Filled in by the changeset; empty when raised by a Type directly.
	Value any
	Type  string
	Cause error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("changeset: cannot cast %v (%T) to %s", e.Value, e.Value, e.Type)
}

func (e *CastError) Unwrap() error { return e.Cause }

// ConfigError reports a malformed schema declaration, such as an unknown
// normalizer id. It is a programmer error and fails fast at declaration time.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "changeset: " + e.Msg }

// ValidationError is returned by ApplyStrict when the changeset is invalid.
// It carries the full accumulated Issues.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	return "changeset: validation failed: " + e.Issues.Error()
}

func (e *ValidationError) Unwrap() error { return e.Issues }
