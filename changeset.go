package changeset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/reoring/changeset/i18n"
)

// Change records one field-level difference between the record's current
// state and the changeset's normalized value.
type Change struct {
	Field string
	Old   any
	New   any
}

// Changeset binds a schema, a target record and the extracted, cast and
// normalized values of one proposed patch. Construction is eager and
// synchronous; diffing always re-reads the record, so external mutation
// between calls is reflected. A Changeset is not safe for concurrent use.
type Changeset struct {
	schema *Schema
	record Record
	raw    Params
	values map[string]any
	cast   Issues

	validated bool
	errs      Issues
}

// Cast builds a changeset from any supported input container: Params,
// map[string]any, map[string]string, url.Values, a Paramser, or nil. The
// error covers unsupported containers only; bad values never fail
// construction, they become field issues instead.
func Cast(s *Schema, rec Record, input any) (*Changeset, error) {
	p, err := paramsOf(input)
	if err != nil {
		return nil, err
	}
	return New(s, rec, p), nil
}

// New builds a changeset from an already-snapshot Params. Extraction, cast
// and normalization run here, before any diff or validation observes values.
func New(s *Schema, rec Record, p Params) *Changeset {
	c := &Changeset{
		schema: s,
		record: rec,
		raw:    p,
		values: make(map[string]any, len(s.order)),
	}
	for _, name := range s.order {
		raw, ok := p[name]
		if !ok {
			continue
		}
		f := s.fields[name]
		v, err := f.typ.Cast(raw)
		if err != nil {
			c.cast = AppendIssues(c.cast, castIssue(name, raw, f.typ, err))
			continue
		}
		for _, norm := range f.norms {
			v = norm(v)
		}
		c.values[name] = v
	}
	return c
}

func castIssue(field string, raw any, typ Type, err error) Issue {
	var ce *CastError
	if errors.As(err, &ce) {
		ce.Field = field
	}
	return Issue{
		Field:   field,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, nil),
		Cause:   err,
		Params:  map[string]any{"type": typ.Name(), "value": fmt.Sprint(raw)},
	}
}

// Schema returns the definition this instance was built from.
func (c *Changeset) Schema() *Schema { return c.schema }

// Record returns the externally-owned record reference.
func (c *Changeset) Record() Record { return c.record }

// Raw returns a copy of the original input snapshot, kept for auditability.
func (c *Changeset) Raw() Params { return ParamsFromMap(map[string]any(c.raw)) }

// Get returns the cast and normalized value for a declared field, and
// whether the field was present in the input at all.
func (c *Changeset) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Value returns the field's effective current value: the changeset's value
// when the input carried it, otherwise the record's current value.
func (c *Changeset) Value(name string) any {
	if v, ok := c.values[name]; ok {
		return v
	}
	return c.current(name)
}

// Changed reports whether the field differs from the record's current value.
func (c *Changeset) Changed(name string) bool {
	v, ok := c.values[name]
	if !ok {
		return false
	}
	return !valueEqual(c.current(name), v)
}

// ChangedFields returns the names of the changed fields in declaration order.
func (c *Changeset) ChangedFields() []string {
	out := make([]string, 0, len(c.values))
	for _, name := range c.schema.order {
		if c.Changed(name) {
			out = append(out, name)
		}
	}
	return out
}

// Changes returns the field-level differences in declaration order. The old
// value is read fresh from the record at call time; unchanged fields are
// omitted entirely.
func (c *Changeset) Changes() []Change {
	var out []Change
	for _, name := range c.schema.order {
		v, ok := c.values[name]
		if !ok {
			continue
		}
		old := c.current(name)
		if valueEqual(old, v) {
			continue
		}
		out = append(out, Change{Field: name, Old: old, New: v})
	}
	return out
}

// PatchOpt bundles patch computation options.
type PatchOpt struct {
	// IncludeNil keeps entries whose new value is nil (a field changed from
	// present to absent). The default excludes them.
	IncludeNil bool
}

// Patch returns the update payload: changed fields mapped to their new
// values, restricted by PatchOpt.
func (c *Changeset) Patch(opts ...PatchOpt) map[string]any {
	var opt PatchOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	patch := map[string]any{}
	for _, ch := range c.Changes() {
		if ch.New == nil && !opt.IncludeNil {
			continue
		}
		patch[ch.Field] = ch.New
	}
	return patch
}

// Valid reports whether the changeset passes its cast and validator checks.
// Validation runs once per instance, on the first call, and is cached.
func (c *Changeset) Valid(ctx context.Context) bool {
	return len(c.validate(ctx)) == 0
}

// Errors returns the accumulated issues: cast failures first, then each
// definition validator's output in attachment order.
func (c *Changeset) Errors(ctx context.Context) Issues {
	return c.validate(ctx)
}

func (c *Changeset) validate(ctx context.Context) Issues {
	if c.validated {
		return c.errs
	}
	errs := append(Issues{}, c.cast...)
	for _, v := range c.schema.validators {
		errs = AppendIssues(errs, v.Validate(ctx, c)...)
	}
	c.validated = true
	c.errs = errs
	return errs
}

func (c *Changeset) current(name string) any {
	if c.record == nil {
		return nil
	}
	v, ok := c.record.Field(name)
	if !ok {
		return nil
	}
	return v
}

// valueEqual compares by value, folding numeric kinds so a record's int and
// a cast int64 compare equal.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
		return false
	}
	ra := reflect.ValueOf(normNumber(a))
	rb := reflect.ValueOf(normNumber(b))
	if isIntLike(ra.Kind()) && isIntLike(rb.Kind()) {
		return toInt64(ra) == toInt64(rb)
	}
	if isNumeric(ra.Kind()) && isNumeric(rb.Kind()) {
		return toFloat64(ra) == toFloat64(rb)
	}
	return reflect.DeepEqual(a, b)
}

// normNumber widens json.Number into int64 or float64 for comparison.
func normNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i64, err := n.Int64(); err == nil {
		return i64
	}
	if f64, err := n.Float64(); err == nil {
		return f64
	}
	return v
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isNumeric(k reflect.Kind) bool {
	return isIntLike(k) || k == reflect.Float32 || k == reflect.Float64
}

func toInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return 0
	}
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return float64(toInt64(v))
	}
}
