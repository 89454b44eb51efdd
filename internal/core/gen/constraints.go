package gen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/handlescout/handlescout/internal/core/naming"
)

// Constraints describe the candidates one run is allowed to produce.
// Built once per run from configuration and treated as immutable.
type Constraints struct {
	LengthMin int
	LengthMax int
	DigitsMin int
	DigitsMax int
	Require   string
}

// Validate rejects constraint tuples that can never produce a candidate.
// This runs pre-flight, before any oracle call is made.
func (c Constraints) Validate() error {
	if c.LengthMin < naming.MinLength {
		return fmt.Errorf("minimum length must be >= %d (registry requirement), got %d", naming.MinLength, c.LengthMin)
	}
	if c.LengthMax > naming.MaxLength {
		return fmt.Errorf("maximum length must be <= %d (registry requirement), got %d", naming.MaxLength, c.LengthMax)
	}
	if c.LengthMax < c.LengthMin {
		return fmt.Errorf("maximum length %d is below minimum length %d", c.LengthMax, c.LengthMin)
	}
	if c.DigitsMin < 0 {
		return fmt.Errorf("minimum digit count must be >= 0, got %d", c.DigitsMin)
	}
	if c.DigitsMax < c.DigitsMin {
		return fmt.Errorf("maximum digit count %d is below minimum digit count %d", c.DigitsMax, c.DigitsMin)
	}
	if c.DigitsMax >= c.LengthMax {
		return fmt.Errorf("maximum digit count %d leaves no room for a leading letter at length %d", c.DigitsMax, c.LengthMax)
	}
	if c.Require != "" {
		req := sanitizeRequire(c.Require)
		if req == "" {
			return fmt.Errorf("required substring %q has no legal characters", c.Require)
		}
		if len(req) > c.LengthMax-c.DigitsMin {
			return fmt.Errorf("required substring %q cannot fit the non-digit portion of any candidate", c.Require)
		}
	}
	return nil
}

// sanitizeRequire lowercases the required substring and drops every rune
// outside the registry charset. An input that sanitizes to empty is invalid.
func sanitizeRequire(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// Build draws one candidate satisfying the constraint tuple, or reports
// ok=false. This is a rejection-sampling solver, not a closed-form
// construction: callers must expect a high failure rate under tight
// constraints and simply draw again.
func Build(rng *rand.Rand, c Constraints) (string, bool) {
	length := c.LengthMin + rng.Intn(c.LengthMax-c.LengthMin+1)

	digits := c.DigitsMin + rng.Intn(c.DigitsMax-c.DigitsMin+1)
	// Reserve at least one non-digit slot so the first character is a letter.
	if digits > length-1 {
		digits = length - 1
	}

	require := sanitizeRequire(c.Require)
	if c.Require != "" && require == "" {
		return "", false
	}

	baseLen := length - digits
	if baseLen < 1 || len(require) > baseLen {
		return "", false
	}

	skeleton := MakeName(rng, baseLen)
	if require != "" {
		// Splice at a uniform offset keeping the substring fully contained,
		// overwriting the skeleton characters beneath it.
		offset := rng.Intn(baseLen - len(require) + 1)
		skeleton = skeleton[:offset] + require + skeleton[offset+len(require):]
	}

	if !isLetter(skeleton[0]) {
		return "", false
	}

	cand := []byte(skeleton)
	for i := 0; i < digits; i++ {
		// Strictly after index 0; inserting at len appends.
		pos := 1 + rng.Intn(len(cand))
		digit := byte('0' + rng.Intn(10))
		grown := make([]byte, 0, len(cand)+1)
		grown = append(grown, cand[:pos]...)
		grown = append(grown, digit)
		grown = append(grown, cand[pos:]...)
		cand = grown
	}

	name := naming.Normalize(string(cand))
	if !naming.IsValid(name) || !LooksOK(name) {
		return "", false
	}
	if len(name) < c.LengthMin || len(name) > c.LengthMax {
		return "", false
	}
	if n := digitCount(name); n < c.DigitsMin || n > c.DigitsMax {
		return "", false
	}
	// Digit insertion may land inside the spliced substring; reject those
	// draws so the substring survives as a contiguous match.
	if require != "" && !strings.Contains(name, require) {
		return "", false
	}

	return name, true
}
