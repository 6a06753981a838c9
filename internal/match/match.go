// Package match fuzzy-resolves free-text country and commodity names
// against a dataset vocabulary.
//
// The score rewards candidates whose length is close to the target and
// where a long prefix of the target occurs anywhere inside the
// candidate. It is not an edit distance; the exact formula is kept for
// compatibility with the vocabularies the dialogue layer was tuned on.
package match

import (
	"strings"

	"github.com/pricetalk/pricetalk/pkg/models"
)

// AcceptThreshold is the minimum confidence for a match to be accepted
// at call sites, subject to the substring exception in Accept.
const AcceptThreshold = 0.2

var normalizer = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")

// Normalize lowercases s, trims surrounding whitespace, and removes
// internal spaces, parentheses, and hyphens. Dots are deliberately kept:
// "U.S.A" does not normalize to "usa".
func Normalize(s string) string {
	return normalizer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Score computes the prefix-overlap score between a target and a
// candidate, both given in raw form. It scans truncation lengths from
// len(target) down to 0 and stops at the first truncated prefix that
// occurs as a substring anywhere in the candidate.
func Score(target, candidate string) float64 {
	t := Normalize(target)
	c := Normalize(candidate)
	if len(t) == 0 || len(c) == 0 {
		return 0
	}
	for l := len(t); l >= 0; l-- {
		if strings.Contains(c, t[:l]) {
			return (1 - float64(len(t)-l)/float64(len(t))) * (float64(len(t)) / float64(len(c)))
		}
	}
	return 0
}

// Match resolves target against candidates and returns the best match
// with its confidence. Ties keep the first candidate encountered, so
// callers should pass candidates in a stable (sorted) order.
func Match(target string, candidates []string) models.ResolvedEntity {
	best := models.ResolvedEntity{Input: target}
	for _, cand := range candidates {
		if s := Score(target, cand); s > best.Confidence {
			best.Matched = cand
			best.Confidence = s
		}
	}
	return best
}

// Accept applies the call-site acceptance policy: a match is accepted
// when its confidence reaches AcceptThreshold, or when the lowercase raw
// input is a literal substring of the matched candidate. The substring
// exception recovers short partial phrasings ("viet" for "viet nam")
// that the scoring formula under-rewards.
func Accept(e models.ResolvedEntity) bool {
	if e.Matched == "" {
		return false
	}
	if e.Confidence >= AcceptThreshold {
		return true
	}
	raw := strings.ToLower(strings.TrimSpace(e.Input))
	return raw != "" && strings.Contains(strings.ToLower(e.Matched), raw)
}

// Commodities resolves target against a commodity vocabulary. Beyond the
// single best accepted match, it also includes every vocabulary entry
// that contains the target minus its last character, which recovers
// plural/singular variants ("potatoes" widens to "potatoes (irish)").
func Commodities(target string, vocab []string) []string {
	var out []string
	seen := make(map[string]bool)

	if best := Match(target, vocab); Accept(best) {
		out = append(out, best.Matched)
		seen[best.Matched] = true
	}

	stem := strings.ToLower(strings.TrimSpace(target))
	if len(stem) > 1 {
		stem = stem[:len(stem)-1]
		for _, entry := range vocab {
			if !seen[entry] && strings.Contains(strings.ToLower(entry), stem) {
				out = append(out, entry)
				seen[entry] = true
			}
		}
	}
	return out
}
