package dsl

import (
	changeset "github.com/reoring/changeset"
)

// Builder accumulates field declarations for one changeset definition.
type Builder struct {
	fields     []changeset.FieldDef
	index      map[string]int
	validators []changeset.Validator
	model      any
}

type fieldStep struct {
	b *Builder
	i int
}

// Schema creates a new empty schema builder.
func Schema() *Builder {
	return &Builder{index: map[string]int{}}
}

// Field declares an attribute with its type. Re-declaring an existing name
// overwrites its type and normalizers (last-write-wins, original position
// kept). A nil type defaults to String.
func (b *Builder) Field(name string, typ changeset.Type) *fieldStep {
	if i, ok := b.index[name]; ok {
		b.fields[i] = changeset.FieldDef{Name: name, Type: typ}
		return &fieldStep{b: b, i: i}
	}
	b.fields = append(b.fields, changeset.FieldDef{Name: name, Type: typ})
	b.index[name] = len(b.fields) - 1
	return &fieldStep{b: b, i: len(b.fields) - 1}
}

// Normalize appends normalizers to the current field, applied in the given
// order after casting.
func (f *fieldStep) Normalize(ids ...changeset.NormalizerID) *fieldStep {
	fd := &f.b.fields[f.i]
	fd.Normalizers = append(fd.Normalizers, ids...)
	return f
}

func (f *fieldStep) Field(name string, typ changeset.Type) *fieldStep { return f.b.Field(name, typ) }
func (f *fieldStep) Validate(vs ...changeset.Validator) *Builder      { return f.b.Validate(vs...) }
func (f *fieldStep) Model(m any) *Builder                             { return f.b.Model(m) }
func (f *fieldStep) Build() (*changeset.Schema, error)                { return f.b.Build() }
func (f *fieldStep) MustBuild() *changeset.Schema                     { return f.b.MustBuild() }

// Validate attaches definition-level validators, run lazily on the first
// validity check of each instance.
func (b *Builder) Validate(vs ...changeset.Validator) *Builder {
	for _, v := range vs {
		if v != nil {
			b.validators = append(b.validators, v)
		}
	}
	return b
}

// Model records an informational hint naming the record type this definition
// targets. It is never enforced at runtime.
func (b *Builder) Model(m any) *Builder {
	b.model = m
	return b
}

// Build compiles the declarations into an immutable Schema. Unknown
// normalizer ids fail here with a *ConfigError.
func (b *Builder) Build() (*changeset.Schema, error) {
	return changeset.NewSchema(b.fields, changeset.SchemaOpt{
		Validators: b.validators,
		Model:      b.model,
	})
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *changeset.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Type constructors re-exported for builder call sites.

// String returns the string type.
func String() changeset.Type { return changeset.String() }

// Int returns the integer type.
func Int() changeset.Type { return changeset.Int() }

// Float returns the floating-point type.
func Float() changeset.Type { return changeset.Float() }

// Bool returns the boolean type.
func Bool() changeset.Type { return changeset.Bool() }

// Time returns the RFC3339 timestamp type.
func Time() changeset.Type { return changeset.Time() }
