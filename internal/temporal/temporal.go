// Package temporal turns date-bearing phrases — relative expressions
// like "recent 2 years" as well as absolute dates like "2023" or
// "May 2024" — into concrete [start, end] intervals.
//
// Resolution runs an ordered rule chain: the relative grammar first,
// then a loose recency-keyword fallback, then absolute parsing with
// dual rounding policies. Each rule is independently testable.
package temporal

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pricetalk/pricetalk/pkg/models"
)

// relativeRe matches the supported relative-date grammar, e.g.
// "last year", "past few months", "recent 2 quarters", "previous decade".
var relativeRe = regexp.MustCompile(`(?i)\b(recent|latest|last|past|previous|current)\s+(?:([a-z0-9-]+)\s+)?(year|month|quarter|week|day|decade)(s?)\b`)

// quantityWords maps cardinal words of the grammar to their value.
var quantityWords = map[string]int{
	"couple":     2,
	"few":        3,
	"several":    4,
	"dozen":      12,
	"half-dozen": 6,
}

// periodDays gives the fixed length in days used for interval
// arithmetic on relative expressions.
var periodDays = map[string]int{
	"year":    365,
	"month":   30,
	"quarter": 91,
	"week":    7,
	"day":     1,
	"decade":  3650,
}

// looseLookbackDays is the fallback window when a phrase only hints at
// recency ("late", "recent", "current") without matching the grammar.
const looseLookbackDays = 365

// granularity of an absolute date expression, used to pick the rounding
// bounds: "2023" is year-granular, "2023-05" month-granular.
type granularity int

const (
	granDay granularity = iota
	granMonth
	granYear
)

// absoluteLayouts lists the accepted absolute formats in trial order,
// most specific first.
var absoluteLayouts = []struct {
	layout string
	gran   granularity
}{
	{"2006-01-02", granDay},
	{"02/01/2006", granDay},
	{"January 2, 2006", granDay},
	{"Jan 2, 2006", granDay},
	{"2 January 2006", granDay},
	{"2 Jan 2006", granDay},
	{"2006-01", granMonth},
	{"01/2006", granMonth},
	{"January 2006", granMonth},
	{"Jan 2006", granMonth},
	{"2006", granYear},
}

// ErrUnparseable is returned when a phrase matches none of the rules.
type ErrUnparseable struct {
	Phrase string
}

func (e *ErrUnparseable) Error() string {
	return fmt.Sprintf("cannot interpret date phrase %q", e.Phrase)
}

// Resolve parses a single date-bearing phrase into an interval relative
// to ref. A single absolute point expands to a span under the dual
// rounding policies ("2024" becomes Jan 1 through Dec 31 2024).
func Resolve(phrase string, ref time.Time) (models.DateInterval, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return models.DateInterval{}, &ErrUnparseable{Phrase: phrase}
	}

	if m := relativeRe.FindStringSubmatch(phrase); m != nil {
		return relativeInterval(m, ref), nil
	}

	lower := strings.ToLower(phrase)
	for _, kw := range []string{"late", "recent", "current"} {
		if strings.Contains(lower, kw) {
			return models.DateInterval{Start: ref.AddDate(0, 0, -looseLookbackDays), End: ref}, nil
		}
	}

	start, err := parseAbsolute(phrase, false)
	if err != nil {
		return models.DateInterval{}, err
	}
	end, _ := parseAbsolute(phrase, true) // same layouts; cannot fail if start parsed
	return models.DateInterval{Start: start, End: end}, nil
}

// ResolveMulti resolves several independent date-bearing phrases and
// combines them chronologically: the earliest phrase supplies the start
// bound, the latest supplies the end bound.
func ResolveMulti(phrases []string, ref time.Time) (models.DateInterval, error) {
	var intervals []models.DateInterval
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			continue
		}
		iv, err := Resolve(p, ref)
		if err != nil {
			return models.DateInterval{}, err
		}
		intervals = append(intervals, iv)
	}
	if len(intervals) == 0 {
		return models.DateInterval{}, &ErrUnparseable{Phrase: strings.Join(phrases, ", ")}
	}

	// Chronological order: the earliest phrase supplies the start
	// rounding, the latest supplies the end rounding.
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
	return models.DateInterval{
		Start: intervals[0].Start,
		End:   intervals[len(intervals)-1].End,
	}, nil
}

// relativeInterval builds [ref - quantity*period, ref] from a grammar
// match. An unknown quantity word falls back silently to the plural or
// singular default, never to an error.
func relativeInterval(m []string, ref time.Time) models.DateInterval {
	plural := m[4] != ""
	qty := quantityOf(m[2], plural)
	days := qty * periodDays[strings.ToLower(m[3])]
	return models.DateInterval{Start: ref.AddDate(0, 0, -days), End: ref}
}

// quantityOf maps the optional quantity token to a number: a cardinal
// word from the lexicon, a digit string, or the default (3 for plural
// period words, 1 for singular).
func quantityOf(token string, plural bool) int {
	def := 1
	if plural {
		def = 3
	}
	if token == "" {
		return def
	}
	token = strings.ToLower(token)
	if n, ok := quantityWords[token]; ok {
		return n
	}
	if n, err := strconv.Atoi(token); err == nil && n > 0 {
		return n
	}
	return def
}

// parseAbsolute parses phrase as an absolute date. With roundUp false
// the result snaps to the first day of the matched granularity (start
// bound); with roundUp true it snaps to the last day (end bound).
func parseAbsolute(phrase string, roundUp bool) (time.Time, error) {
	for _, l := range absoluteLayouts {
		t, err := time.Parse(l.layout, phrase)
		if err != nil {
			continue
		}
		switch l.gran {
		case granYear:
			if roundUp {
				return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), nil
			}
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
		case granMonth:
			if roundUp {
				first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
				return first.AddDate(0, 1, -1), nil
			}
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		default:
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &ErrUnparseable{Phrase: phrase}
}

// Format renders t in the canonical YYYY-MM-DD representation.
func Format(t time.Time) string {
	return t.Format(models.DateOnly)
}
