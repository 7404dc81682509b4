package normalize_test

import (
	"reflect"
	"testing"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/normalize"
)

func TestImages_Shapes(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{}},
		{"native strings", []string{"a.jpg", "b.jpg"}, []string{"a.jpg", "b.jpg"}},
		{"native any strings", []any{"a.jpg", "b.jpg"}, []string{"a.jpg", "b.jpg"}},
		{"native numbers", []any{float64(1), float64(2)}, []string{"1", "2"}},
		{"empty slice", []any{}, []string{}},
		{"empty string", "", []string{}},
		{"whitespace", "   ", []string{}},
		{"literal null", "null", []string{}},
		{"literal NULL padded", "  NULL  ", []string{}},
		{"mixed case null", "NuLl", []string{}},
		{"json array", `["x.jpg","y.jpg"]`, []string{"x.jpg", "y.jpg"}},
		{"json array padded", `  ["x.jpg"]  `, []string{"x.jpg"}},
		{"json numeric array", `[1,2]`, []string{"1", "2"}},
		{"json non-array", `42`, []string{"42"}},
		{"json object", `{"url":"x.jpg"}`, []string{`{"url":"x.jpg"}`}},
		{"malformed json", `not json {`, []string{"not json {"}},
		{"array with trailing text", `["x.jpg"] trailing`, []string{`["x.jpg"] trailing`}},
		{"array with extra bracket", `["a.jpg","b.jpg"]]`, []string{`["a.jpg","b.jpg"]]`}},
		{"bare url", "https://example.com/a.jpg", []string{"https://example.com/a.jpg"}},
		{"integer input", 5, []string{}},
		{"float input", 5.5, []string{}},
		{"bool input", true, []string{}},
		{"map input", map[string]any{"a": 1}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalize.Images(tc.in)
			if got == nil {
				t.Fatalf("Images returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Images(%#v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestImages_OrderPreserved(t *testing.T) {
	in := []any{"c.jpg", "a.jpg", "b.jpg"}
	got := normalize.Images(in)
	want := []string{"c.jpg", "a.jpg", "b.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestImages_Idempotent(t *testing.T) {
	first := normalize.Images(`["x.jpg","y.jpg",7]`)
	second := normalize.Images(first)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v vs %v", first, second)
	}
}

func TestImages_DoesNotAliasInput(t *testing.T) {
	in := []string{"a.jpg", "b.jpg"}
	got := normalize.Images(in)
	got[0] = "mutated"
	if in[0] != "a.jpg" {
		t.Fatalf("input slice was aliased")
	}
}
