package changeset_test

import (
	"testing"

	changeset "github.com/reoring/changeset"
	"github.com/reoring/changeset/dsl"
)

func normalize(t *testing.T, id changeset.NormalizerID, v any) any {
	t.Helper()
	fn, ok := changeset.LookupNormalizer(id)
	if !ok {
		t.Fatalf("normalizer %q not registered", id)
	}
	return fn(v)
}

func TestNormalizers_Builtins(t *testing.T) {
	cases := []struct {
		id       changeset.NormalizerID
		in, want any
	}{
		{changeset.Strip, "  a  ", "a"},
		{changeset.Strip, "a", "a"},
		{changeset.Strip, 5, 5},
		{changeset.Squish, "  a   b  ", "a b"},
		{changeset.Squish, "a\t\n b", "a b"},
		{changeset.Squish, true, true},
		{changeset.Downcase, "AB", "ab"},
		{changeset.Downcase, 1, 1},
		{changeset.Upcase, "ab", "AB"},
		{changeset.BlankToNil, "   ", nil},
		{changeset.BlankToNil, "", nil},
		{changeset.BlankToNil, nil, nil},
		{changeset.BlankToNil, "x", "x"},
		{changeset.BlankToNil, 0, 0},
	}
	for _, tc := range cases {
		if got := normalize(t, tc.id, tc.in); got != tc.want {
			t.Fatalf("%s(%#v) = %#v, want %#v", tc.id, tc.in, got, tc.want)
		}
	}
}

func TestNormalizers_Idempotent(t *testing.T) {
	once := normalize(t, changeset.Squish, "  a   b  ")
	if twice := normalize(t, changeset.Squish, once); twice != once {
		t.Fatalf("squish not idempotent: %q vs %q", once, twice)
	}
	n1 := normalize(t, changeset.BlankToNil, "  ")
	if n2 := normalize(t, changeset.BlankToNil, n1); n2 != n1 {
		t.Fatalf("blank_to_nil not stable: %v vs %v", n1, n2)
	}
}

func TestNormalizers_OrderMatters(t *testing.T) {
	// strip then blank_to_nil turns "  " into nil via the empty string
	s := dsl.Schema().
		Field("a", dsl.String()).Normalize(changeset.Strip, changeset.BlankToNil).
		MustBuild()
	c, err := changeset.Cast(s, changeset.MapRecord{}, map[string]any{"a": "  "})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	if v, ok := c.Get("a"); !ok || v != nil {
		t.Fatalf("expected present nil, got (%v,%v)", v, ok)
	}
}

func TestRegisterNormalizer_Custom(t *testing.T) {
	changeset.RegisterNormalizer("first_rune", func(v any) any {
		if s, ok := v.(string); ok && s != "" {
			return string([]rune(s)[0])
		}
		return v
	})
	s := dsl.Schema().
		Field("initial", dsl.String()).Normalize(changeset.Upcase, "first_rune").
		MustBuild()
	c, err := changeset.Cast(s, changeset.MapRecord{}, map[string]any{"initial": "joão"})
	if err != nil {
		t.Fatalf("cast err: %v", err)
	}
	if v, _ := c.Get("initial"); v != "J" {
		t.Fatalf("expected J, got %v", v)
	}
}
