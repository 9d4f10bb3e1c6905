package changeset

import "context"

// Record exposes read access to the object being patched. Any type with this
// capability may be used; no base type is required. A field the record does
// not expose reads as absent, which the diff treats as nil.
type Record interface {
	Field(name string) (any, bool)
}

// Updater is the best-effort update capability. The boolean outcome is the
// record's own success signal and is relayed verbatim by Apply.
type Updater interface {
	Update(ctx context.Context, patch map[string]any) bool
}

// StrictUpdater is the failing update capability. Whatever error the record
// returns propagates unchanged through ApplyStrict.
type StrictUpdater interface {
	UpdateStrict(ctx context.Context, patch map[string]any) error
}

// MapRecord is a map-backed record implementing every capability. It is handy
// for tests and for hosts whose records are plain attribute maps.
type MapRecord map[string]any

// Field reads the current value for name.
func (r MapRecord) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Update merges the patch in place and reports success.
func (r MapRecord) Update(ctx context.Context, patch map[string]any) bool {
	for k, v := range patch {
		r[k] = v
	}
	return true
}

// UpdateStrict merges the patch in place.
func (r MapRecord) UpdateStrict(ctx context.Context, patch map[string]any) error {
	r.Update(ctx, patch)
	return nil
}
