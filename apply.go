package changeset

import (
	"context"
	"errors"
)

// ErrNotStrictUpdatable indicates ApplyStrict was called on a record without
// the StrictUpdater capability.
var ErrNotStrictUpdatable = errors.New("changeset: record does not implement StrictUpdater")

// Apply runs the best-effort protocol. An invalid changeset returns false
// with no side effect. A valid one invokes the record's Update with the
// patch payload and relays its boolean outcome as-is. A valid-but-unchanged
// changeset still issues the update call with an empty patch; an empty patch
// is a no-op under the record's update contract. A record without the
// Updater capability returns false.
func (c *Changeset) Apply(ctx context.Context) bool {
	if !c.Valid(ctx) {
		return false
	}
	u, ok := c.record.(Updater)
	if !ok {
		return false
	}
	return u.Update(ctx, c.Patch())
}

// ApplyStrict runs the failing protocol. An invalid changeset returns a
// *ValidationError carrying the full Issues, with no side effect. A valid
// one invokes UpdateStrict; any error it returns propagates unchanged.
func (c *Changeset) ApplyStrict(ctx context.Context) error {
	if !c.Valid(ctx) {
		return &ValidationError{Issues: c.Errors(ctx)}
	}
	u, ok := c.record.(StrictUpdater)
	if !ok {
		return ErrNotStrictUpdatable
	}
	return u.UpdateStrict(ctx, c.Patch())
}
