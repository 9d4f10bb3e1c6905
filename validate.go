package changeset

import "context"

// Validator is the pluggable rule contract attached to a changeset
// definition. It inspects the instance's current attribute values and
// produces field-keyed issues. The apply protocol depends only on whether
// the resulting collection is empty, not on how rules are expressed.
type Validator interface {
	Validate(ctx context.Context, c *Changeset) Issues
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(ctx context.Context, c *Changeset) Issues

// Validate implements Validator.
func (f ValidatorFunc) Validate(ctx context.Context, c *Changeset) Issues { return f(ctx, c) }
