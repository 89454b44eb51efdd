package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "brandel", Normalize("  @Brandel "))
	require.Equal(t, "sto4rk", Normalize("Sto4rk"))
	require.Equal(t, "", Normalize("   "))
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"brandel", true},
		{"Brandel", true}, // normalized before matching
		{"@frostin", true},
		{"sto4rk", true},
		{"gri_mble", true},
		{"a1234", true},
		{"abcd", false},               // below registry minimum
		{"1grum", false},              // leading digit
		{"_grum5", false},             // leading underscore
		{"gr-onk", false},             // disallowed character
		{"gr onk", false},             // whitespace inside
		{strings.Repeat("a", 32), true},
		{strings.Repeat("a", 33), false},
		{"", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.valid, IsValid(tc.name), "name %q", tc.name)
	}
}
