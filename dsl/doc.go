// Package dsl provides the fluent builder for changeset definitions.
//
// A definition is declared once, compiled into an immutable Schema, and
// shared by every changeset built from it:
//
//	s := dsl.Schema().
//		Field("name", dsl.String()).Normalize(changeset.Strip, changeset.Squish).
//		Field("email", dsl.String()).Normalize(changeset.Strip, changeset.Downcase).
//		Field("age", dsl.Int()).
//		Validate(rules.Required("name")).
//		MustBuild()
package dsl
