package gen

import "math/rand"

// triesPerCandidate bounds sampling work: plenty to absorb the rejection
// and duplicate rates under ordinary constraints.
const triesPerCandidate = 80

// Sample draws up to n unique candidates satisfying c. Rejections and
// duplicates are silently retried until the try budget is exhausted, so the
// result may be shorter than n, or empty — that is best effort, not an
// error. Order follows generation order; given the same rng seed and
// constraints the returned set is identical across calls.
func Sample(rng *rand.Rand, n int, c Constraints) []string {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	budget := n * triesPerCandidate

	for tries := 0; len(out) < n && tries < budget; tries++ {
		cand, ok := Build(rng, c)
		if !ok {
			continue
		}
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		out = append(out, cand)
	}

	return out
}
