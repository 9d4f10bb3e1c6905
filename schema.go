package changeset

import "fmt"

// FieldDef declares a single attribute: its name, type and normalizer
// pipeline. A nil Type defaults to String.
type FieldDef struct {
	Name        string
	Type        Type
	Normalizers []NormalizerID
}

// SchemaOpt bundles definition-level options.
type SchemaOpt struct {
	// Validators are run lazily on the first validity check of each instance.
	Validators []Validator
	// Model is an informational hint naming the record type this definition
	// targets. It is never enforced at runtime.
	Model any
}

type schemaField struct {
	typ   Type
	ids   []NormalizerID
	norms []Normalizer
}

// Schema is the immutable, compiled attribute declaration shared by every
// changeset of one definition.
type Schema struct {
	order      []string
	fields     map[string]schemaField
	validators []Validator
	model      any
}

// NewSchema compiles field declarations into a Schema. Re-declaring a name
// overwrites its type and normalizers (last-write-wins, original position
// kept). Unknown or empty normalizer ids are configuration errors and fail
// here, not later at cast or apply time.
func NewSchema(fields []FieldDef, opts ...SchemaOpt) (*Schema, error) {
	var opt SchemaOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	s := &Schema{
		fields:     make(map[string]schemaField, len(fields)),
		validators: opt.Validators,
		model:      opt.Model,
	}
	for _, fd := range fields {
		if fd.Name == "" {
			return nil, &ConfigError{Msg: "field name must not be empty"}
		}
		typ := fd.Type
		if typ == nil {
			typ = String()
		}
		norms := make([]Normalizer, 0, len(fd.Normalizers))
		for _, id := range fd.Normalizers {
			fn, ok := LookupNormalizer(id)
			if !ok {
				return nil, &ConfigError{Msg: fmt.Sprintf("unknown normalizer %q for field %q", id, fd.Name)}
			}
			norms = append(norms, fn)
		}
		if _, dup := s.fields[fd.Name]; !dup {
			s.order = append(s.order, fd.Name)
		}
		ids := append([]NormalizerID(nil), fd.Normalizers...)
		s.fields[fd.Name] = schemaField{typ: typ, ids: ids, norms: norms}
	}
	return s, nil
}

// FieldNames returns the declared names in declaration order.
func (s *Schema) FieldNames() []string {
	return append([]string(nil), s.order...)
}

// TypeOf returns the declared type for a field.
func (s *Schema) TypeOf(name string) (Type, bool) {
	f, ok := s.fields[name]
	if !ok {
		return nil, false
	}
	return f.typ, true
}

// NormalizersFor returns the ordered normalizer ids for a field, or nil when
// the field is unknown or has none.
func (s *Schema) NormalizersFor(name string) []NormalizerID {
	f, ok := s.fields[name]
	if !ok || len(f.ids) == 0 {
		return nil
	}
	return append([]NormalizerID(nil), f.ids...)
}

// Validators returns the definition-level validators.
func (s *Schema) Validators() []Validator {
	return append([]Validator(nil), s.validators...)
}

// Model returns the informational record-type hint, or nil.
func (s *Schema) Model() any { return s.model }
