package gen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handlescout/handlescout/internal/core/naming"
)

func TestConstraintsValidate(t *testing.T) {
	valid := Constraints{LengthMin: 5, LengthMax: 6, DigitsMin: 0, DigitsMax: 1}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		c    Constraints
	}{
		{"below registry minimum", Constraints{LengthMin: 4, LengthMax: 6}},
		{"above registry maximum", Constraints{LengthMin: 5, LengthMax: 33}},
		{"max below min", Constraints{LengthMin: 6, LengthMax: 5}},
		{"negative digits", Constraints{LengthMin: 5, LengthMax: 6, DigitsMin: -1}},
		{"digit max below min", Constraints{LengthMin: 5, LengthMax: 6, DigitsMin: 2, DigitsMax: 1}},
		{"digits fill length", Constraints{LengthMin: 5, LengthMax: 6, DigitsMin: 0, DigitsMax: 6}},
		{"require all illegal", Constraints{LengthMin: 5, LengthMax: 6, Require: "!!"}},
		{"require too long", Constraints{LengthMin: 5, LengthMax: 6, DigitsMin: 2, DigitsMax: 2, Require: "abcde"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.c.Validate())
		})
	}
}

func TestBuildLettersOnlyScenario(t *testing.T) {
	// length=[5,5], digits=[0,0], no required substring: every accepted draw
	// is a 5-letter, all-alphabetic, pronounceable name.
	rng := rand.New(rand.NewSource(42))
	c := Constraints{LengthMin: 5, LengthMax: 5}

	collected := Sample(rng, 50, c)
	require.NotEmpty(t, collected)

	for _, name := range collected {
		require.Len(t, name, 5)
		require.Zero(t, digitCount(name), "unexpected digit in %q", name)
		require.True(t, naming.IsValid(name), "invalid name %q", name)
		require.True(t, LooksOK(name), "unpronounceable name %q", name)
	}
}

func TestBuildConstraintProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	c := Constraints{LengthMin: 6, LengthMax: 8, DigitsMin: 1, DigitsMax: 2, Require: "om"}

	accepted := 0
	for i := 0; i < 5000 && accepted < 50; i++ {
		name, ok := Build(rng, c)
		if !ok {
			continue
		}
		accepted++

		require.True(t, naming.IsValid(name))
		require.True(t, LooksOK(name))
		require.GreaterOrEqual(t, len(name), c.LengthMin)
		require.LessOrEqual(t, len(name), c.LengthMax)
		require.GreaterOrEqual(t, digitCount(name), c.DigitsMin)
		require.LessOrEqual(t, digitCount(name), c.DigitsMax)
		require.True(t, strings.Contains(name, "om"), "required substring missing from %q", name)
		require.True(t, name[0] >= 'a' && name[0] <= 'z', "leading digit in %q", name)
	}
	require.Equal(t, 50, accepted, "acceptance rate collapsed")
}

func TestBuildImpossibleRequire(t *testing.T) {
	// base_len = 6-2 = 4, required substring is 6 characters: every draw fails.
	rng := rand.New(rand.NewSource(9))
	c := Constraints{LengthMin: 6, LengthMax: 6, DigitsMin: 2, DigitsMax: 2, Require: "zzzzzz"}

	for i := 0; i < 200; i++ {
		_, ok := Build(rng, c)
		require.False(t, ok)
	}
}

func TestSanitizeRequire(t *testing.T) {
	require.Equal(t, "om_1", sanitizeRequire(" OM_1 "))
	require.Equal(t, "ok", sanitizeRequire("o-k!"))
	require.Equal(t, "", sanitizeRequire("!?-"))
}
