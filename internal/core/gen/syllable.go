// Package gen synthesizes word-like candidate handles. A phonotactic
// generator produces pronounceable letters-only skeletons; a constraint
// builder layers on lengths, digits, and a required substring via rejection
// sampling; a sampler batches the result.
//
// All randomness flows through an explicit *rand.Rand so a seeded batch is
// reproducible without touching process-wide state.
package gen

import (
	"math/rand"
	"strings"
)

const (
	vowels     = "aeiou"
	consonants = "bcdfghjklmnpqrstvwxyz"

	// Letters a candidate may not start or end with.
	awkwardEdges = "xq"
)

var onsetClusters = []string{
	"bl", "br", "ch", "cl", "cr", "dr", "fl", "fr", "gl", "gr", "pl", "pr",
	"sl", "sm", "sn", "sp", "st", "str", "tr", "tw", "sh", "th", "ph", "qu",
	"sk", "wh", "wr",
}

var codaClusters = []string{
	"ck", "ct", "ft", "ld", "lk", "lm", "ln", "lp", "lt", "mp", "nd", "ng",
	"nk", "nt", "pt", "rd", "rk", "rm", "rn", "rp", "rt", "sk", "sp", "st",
	"th",
}

// Adjacent letter pairs that read badly no matter where they land.
var bannedPairs = []string{
	"qj", "jq", "wv", "vw", "zx", "xz", "qh", "hh", "vv", "ww", "yy",
}

func pick(rng *rand.Rand, s string) byte {
	return s[rng.Intn(len(s))]
}

// makeSyllable builds one [onset] vowel [coda] unit. The onset is a cluster
// with probability 0.45, otherwise a single consonant. A coda is present
// with probability 0.35 and is itself a cluster with probability 0.55.
func makeSyllable(rng *rand.Rand) string {
	var sb strings.Builder

	if rng.Float64() < 0.45 {
		sb.WriteString(onsetClusters[rng.Intn(len(onsetClusters))])
	} else {
		sb.WriteByte(pick(rng, consonants))
	}

	sb.WriteByte(pick(rng, vowels))

	if rng.Float64() < 0.35 {
		if rng.Float64() < 0.55 {
			sb.WriteString(codaClusters[rng.Intn(len(codaClusters))])
		} else {
			sb.WriteByte(pick(rng, consonants))
		}
	}

	return sb.String()
}

// MakeName concatenates syllables until targetLen is reached, then truncates
// to exactly targetLen lowercase letters. No digits, no underscore.
func MakeName(rng *rand.Rand, targetLen int) string {
	if targetLen <= 0 {
		return ""
	}

	var sb strings.Builder
	for sb.Len() < targetLen {
		sb.WriteString(makeSyllable(rng))
	}
	return sb.String()[:targetLen]
}

func isVowel(c byte) bool {
	return strings.IndexByte(vowels, c) >= 0
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// LooksOK is the aesthetic filter biasing output toward pronounceable,
// human-plausible handles. It rejects strings containing a banned adjacent
// pair, strings whose letters (digits and underscores skipped) include a run
// of three or more same-class characters (all vowels or all consonants),
// and strings that start or end with an awkward-edge letter.
func LooksOK(s string) bool {
	s = strings.ToLower(s)
	if s == "" {
		return false
	}

	for _, pair := range bannedPairs {
		if strings.Contains(s, pair) {
			return false
		}
	}

	run := 0
	var prevVowel bool
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			continue
		}
		v := isVowel(s[i])
		if run > 0 && v == prevVowel {
			run++
			if run >= 3 {
				return false
			}
		} else {
			run = 1
		}
		prevVowel = v
	}

	if strings.IndexByte(awkwardEdges, s[0]) >= 0 || strings.IndexByte(awkwardEdges, s[len(s)-1]) >= 0 {
		return false
	}

	return true
}
