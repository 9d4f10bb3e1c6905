// Package changeset turns raw, untyped parameters into a validated,
// type-cast patch against an existing record.
//
// It provides:
//
//   - Declarative attribute schemas with automatic input whitelisting
//   - Per-type casting and an ordered normalizer pipeline (strip, squish, ...)
//   - A stable error model via field-keyed Issues
//   - Diff and patch computation against the record's live state
//   - A two-variant apply protocol gated by validity
//
// Design policy:
//   - Keep only public APIs in the root package.
//   - Place the fluent builder under dsl/ and reusable validators under rules/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Schema().
//		Field("name", dsl.String()).Normalize(changeset.Strip, changeset.Squish).
//		Field("age", dsl.Int()).
//		Validate(rules.Required("name")).
//		MustBuild()
//
//	c, err := changeset.Cast(s, rec, input)
//	if !c.Apply(ctx) {
//		for field, msgs := range c.Errors(ctx).ByField() { ... }
//	}
package changeset
