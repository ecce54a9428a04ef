package paths_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/paths"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"email":         "email",
		"user.name":     "user_name",
		"items[0].name": "items_0_name",
		"items[12]":     "items_12",
		" padded.path ": "padded_path",
	}
	for input, want := range cases {
		if got := paths.Sanitize(input); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGroupKey(t *testing.T) {
	cases := map[string]string{
		"items[2].qty": "items",
		"user.name":    "user.name",
		"tags[0]":      "tags",
	}
	for input, want := range cases {
		if got := paths.GroupKey(input); got != want {
			t.Errorf("GroupKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"items[0].qty": "items.qty",
		"items[3]":     "items",
		"user.name":    "user.name",
		"a[1].b[2].c":  "a.b.c",
	}
	for input, want := range cases {
		if got := paths.Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestReadWrite_RoundTrip(t *testing.T) {
	data := map[string]any{}

	if err := paths.Write(data, "user.name", "Ada"); err != nil {
		t.Fatalf("write user.name: %v", err)
	}
	if err := paths.Write(data, "items[1].qty", 3); err != nil {
		t.Fatalf("write items[1].qty: %v", err)
	}

	if got, ok := paths.Read(data, "user.name"); !ok || got != "Ada" {
		t.Fatalf("read user.name = %v (ok=%v), want Ada", got, ok)
	}
	if got, ok := paths.Read(data, "items[1].qty"); !ok || got != 3 {
		t.Fatalf("read items[1].qty = %v (ok=%v), want 3", got, ok)
	}
	if _, ok := paths.Read(data, "items[0].qty"); ok {
		t.Fatal("expected items[0].qty to be unset")
	}
}

func TestRead_DistinguishesUnsetFromNil(t *testing.T) {
	data := map[string]any{"present": nil}

	if _, ok := paths.Read(data, "present"); !ok {
		t.Fatal("stored nil should resolve")
	}
	if _, ok := paths.Read(data, "absent"); ok {
		t.Fatal("missing key should not resolve")
	}
}

func TestWrite_RejectsScalarIntermediate(t *testing.T) {
	data := map[string]any{"user": "not a map"}
	if err := paths.Write(data, "user.name", "Ada"); err == nil {
		t.Fatal("expected error writing through scalar")
	}
}

func TestFlatten(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{"name": "Ada", "email": "ada@example.com"},
		"items": []any{
			map[string]any{"qty": 1},
			map[string]any{"qty": 2},
		},
		"note": "hi",
	}

	want := []string{
		"items[0].qty",
		"items[1].qty",
		"note",
		"user.email",
		"user.name",
	}
	if diff := cmp.Diff(want, paths.Flatten(data)); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}
