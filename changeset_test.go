package changeset_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	changeset "github.com/reoring/changeset"
	"github.com/reoring/changeset/dsl"
)

func profileSchema(t *testing.T) *changeset.Schema {
	t.Helper()
	return dsl.Schema().
		Field("name", dsl.String()).Normalize(changeset.Strip, changeset.Squish).
		Field("email", dsl.String()).Normalize(changeset.Strip, changeset.Downcase).
		Field("age", dsl.Int()).
		MustBuild()
}

func TestCast_DiffAgainstRecord(t *testing.T) {
	s := profileSchema(t)
	rec := changeset.MapRecord{"name": "Original", "email": "original@example.com", "age": 30}

	c, err := changeset.Cast(s, rec, map[string]any{"name": "  João   Santos ", "age": "30"})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}

	want := []changeset.Change{{Field: "name", Old: "Original", New: "João Santos"}}
	if diff := cmp.Diff(want, c.Changes()); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name"}, c.ChangedFields()); diff != "" {
		t.Fatalf("changed fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"name": "João Santos"}, c.Patch()); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
}

func TestCast_BlankToNil(t *testing.T) {
	s := dsl.Schema().
		Field("bio", dsl.String()).Normalize(changeset.BlankToNil).
		MustBuild()
	rec := changeset.MapRecord{"bio": "Uma bio"}

	c, err := changeset.Cast(s, rec, map[string]any{"bio": "   "})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}

	v, ok := c.Get("bio")
	if !ok || v != nil {
		t.Fatalf("expected present nil value, got v=%v ok=%v", v, ok)
	}
	want := []changeset.Change{{Field: "bio", Old: "Uma bio", New: nil}}
	if diff := cmp.Diff(want, c.Changes()); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if p := c.Patch(); len(p) != 0 {
		t.Fatalf("default patch should omit nil entries, got %v", p)
	}
	p := c.Patch(changeset.PatchOpt{IncludeNil: true})
	if v, ok := p["bio"]; !ok || v != nil {
		t.Fatalf("IncludeNil patch should carry bio=nil, got %v", p)
	}
}

func TestCast_Whitelist(t *testing.T) {
	s := profileSchema(t)
	c, err := changeset.Cast(s, changeset.MapRecord{}, map[string]any{
		"name":  "x",
		"admin": true, // undeclared
	})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	if _, ok := c.Get("admin"); ok {
		t.Fatalf("undeclared key must not surface as an attribute")
	}
	if v := c.Value("admin"); v != nil {
		t.Fatalf("undeclared key must read as nil, got %v", v)
	}
	for _, ch := range c.Changes() {
		if ch.Field == "admin" {
			t.Fatalf("undeclared key leaked into changes: %v", ch)
		}
	}
}

func TestCast_AbsentFieldsResolveToNil(t *testing.T) {
	s := profileSchema(t)
	c, err := changeset.Cast(s, changeset.MapRecord{}, map[string]any{})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	for _, name := range s.FieldNames() {
		if v, ok := c.Get(name); ok || v != nil {
			t.Fatalf("absent field %q should be (nil,false), got (%v,%v)", name, v, ok)
		}
	}
	if got := c.ChangedFields(); len(got) != 0 {
		t.Fatalf("no input means no changes, got %v", got)
	}
	if !c.Valid(context.Background()) {
		t.Fatalf("absent fields must not trigger cast errors")
	}
}

func TestCast_AbsentFromRecordMeansNilOld(t *testing.T) {
	s := profileSchema(t)
	// record does not expose "email" at all
	rec := changeset.MapRecord{"name": "n"}
	c, err := changeset.Cast(s, rec, map[string]any{"email": "A@B.com "})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	want := []changeset.Change{{Field: "email", Old: nil, New: "a@b.com"}}
	if diff := cmp.Diff(want, c.Changes()); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestCast_CastFailureBecomesFieldIssue(t *testing.T) {
	ctx := context.Background()
	s := profileSchema(t)
	c, err := changeset.Cast(s, changeset.MapRecord{}, map[string]any{"age": "thirty"})
	if err != nil {
		t.Fatalf("construction must not fail on bad values: %v", err)
	}
	if c.Valid(ctx) {
		t.Fatalf("expected invalid changeset")
	}
	msgs := c.Errors(ctx).ByField()["age"]
	if len(msgs) == 0 {
		t.Fatalf("expected an issue on age, got %v", c.Errors(ctx))
	}
	if _, ok := c.Get("age"); ok {
		t.Fatalf("uncastable value must not enter values")
	}
	iss := c.Errors(ctx)
	if iss[0].Code != changeset.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", iss[0].Code)
	}
}

func TestChangeset_DiffReReadsRecord(t *testing.T) {
	s := profileSchema(t)
	rec := changeset.MapRecord{"name": "old"}
	c, err := changeset.Cast(s, rec, map[string]any{"name": "new"})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	if !c.Changed("name") {
		t.Fatalf("expected name changed")
	}
	// external mutation between calls is reflected
	rec["name"] = "new"
	if c.Changed("name") {
		t.Fatalf("record now matches; diff should re-read current state")
	}
}

func TestChangeset_RawIsASnapshot(t *testing.T) {
	s := profileSchema(t)
	in := map[string]any{"name": "a"}
	c, err := changeset.Cast(s, changeset.MapRecord{}, in)
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	in["name"] = "mutated"
	if got := c.Raw()["name"]; got != "a" {
		t.Fatalf("raw snapshot must be immune to caller mutation, got %v", got)
	}
	// mutating the returned copy must not leak back
	c.Raw()["name"] = "poked"
	if got := c.Raw()["name"]; got != "a" {
		t.Fatalf("Raw must return a copy, got %v", got)
	}
}

func TestChangeset_ValueFallsBackToRecord(t *testing.T) {
	s := profileSchema(t)
	rec := changeset.MapRecord{"email": "kept@example.com"}
	c, err := changeset.Cast(s, rec, map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	if got := c.Value("email"); got != "kept@example.com" {
		t.Fatalf("Value should fall back to the record, got %v", got)
	}
	if got := c.Value("name"); got != "x" {
		t.Fatalf("Value should prefer the changeset value, got %v", got)
	}
}

func TestCast_UnsupportedContainer(t *testing.T) {
	s := profileSchema(t)
	_, err := changeset.Cast(s, changeset.MapRecord{}, 42)
	if err == nil {
		t.Fatalf("expected error for unsupported input container")
	}
	if iss, ok := changeset.AsIssues(err); !ok || iss[0].Code != changeset.CodeParseError {
		t.Fatalf("expected parse_error issues, got %v", err)
	}
}
