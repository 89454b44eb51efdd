package gen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeNameExactLengthLettersOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, length := range []int{1, 5, 6, 12, 32} {
		for i := 0; i < 20; i++ {
			name := MakeName(rng, length)
			require.Len(t, name, length)
			for j := 0; j < len(name); j++ {
				require.True(t, name[j] >= 'a' && name[j] <= 'z', "letter expected in %q", name)
			}
		}
	}
}

func TestMakeNameDeterministic(t *testing.T) {
	a := MakeName(rand.New(rand.NewSource(99)), 8)
	b := MakeName(rand.New(rand.NewSource(99)), 8)
	require.Equal(t, a, b)
}

func TestLooksOK(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"brandel", true},
		{"stonik", true},
		{"sto4rk", true},
		{"aqjel", false},   // banned pair
		{"gayyle", false},  // banned pair
		{"braaim", false},  // three vowels in a row
		{"borstk", false},  // three consonants in a row
		{"xenory", false},  // awkward leading letter
		{"veloq", false},   // awkward trailing letter
		{"velo9", true},    // digit edge is not an awkward letter
		{"bo3r5ka", true},  // digits break up the raw string but letters-only runs still pass
		{"b1r2st3k", false}, // letters-only projection brstk has a consonant run
		{"", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.ok, LooksOK(tc.s), "candidate %q", tc.s)
	}
}
