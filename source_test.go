package argfill_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rlch/argfill"
)

func TestParametersOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  *argfill.Signature
		want []argfill.Parameter
	}{
		{
			name: "nil signature",
			sig:  nil,
			want: nil,
		},
		{
			name: "type and name",
			sig: &argfill.Signature{
				Label:      "m(int a, String b)",
				Parameters: []string{"int a", "String b"},
			},
			want: []argfill.Parameter{
				{Name: "a", Type: "int", Index: 0},
				{Name: "b", Type: "String", Index: 1},
			},
		},
		{
			name: "multi-token type",
			sig: &argfill.Signature{
				Parameters: []string{"final List<String> names"},
			},
			want: []argfill.Parameter{
				{Name: "names", Type: "final List<String>", Index: 0},
			},
		},
		{
			name: "variadic marker stays in the type",
			sig: &argfill.Signature{
				Parameters: []string{"Object... args"},
			},
			want: []argfill.Parameter{
				{Name: "args", Type: "Object...", Index: 0},
			},
		},
		{
			name: "single token becomes the name",
			sig: &argfill.Signature{
				Parameters: []string{"count"},
			},
			want: []argfill.Parameter{
				{Name: "count", Type: "Object", Index: 0},
			},
		},
		{
			name: "blank label falls back to positional",
			sig: &argfill.Signature{
				Parameters: []string{"int a", "  "},
			},
			want: []argfill.Parameter{
				{Name: "a", Type: "int", Index: 0},
				{Name: "arg2", Type: "Object", Index: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := argfill.ParametersOf(tt.sig)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParametersOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
