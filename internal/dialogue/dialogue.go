// Package dialogue is the boundary toward the conversational layer. It
// consumes the structured slot set the upstream NLU extracted from a
// user turn, runs the resolve→filter→summarize pipeline, and renders
// the outcome — including the user-facing failure texts.
package dialogue

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pricetalk/pricetalk/internal/logger"
	"github.com/pricetalk/pricetalk/internal/query"
	"github.com/pricetalk/pricetalk/internal/store"
	"github.com/pricetalk/pricetalk/internal/summary"
	"github.com/pricetalk/pricetalk/internal/temporal"
	"github.com/pricetalk/pricetalk/pkg/models"
)

// DefaultLookbackDays is the window applied when a turn carries no date
// slot at all.
const DefaultLookbackDays = 365

// FallbackText is the response when a turn cannot be understood.
const FallbackText = "I'm sorry, I didn't quite understand that. Can you rephrase?"

// apologyText covers unexpected internal failures.
const apologyText = "I'm sorry, something went wrong on my side. Please try again."

// Response is one bot turn: always a text, optionally accompanied by a
// table or chart-ready series for the presentation layer.
type Response struct {
	Text        string               `json:"text"`
	Table       *models.TableSummary `json:"table,omitempty"`
	Series      []models.Series      `json:"series,omitempty"`
	Commodities []string             `json:"commodities,omitempty"`
}

// Handler runs query turns against the current store snapshot.
type Handler struct {
	holder       *store.Holder
	lookbackDays int
	now          func() time.Time
}

// NewHandler creates a dialogue handler. lookbackDays <= 0 selects the
// default window.
func NewHandler(holder *store.Holder, lookbackDays int) *Handler {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Handler{holder: holder, lookbackDays: lookbackDays, now: time.Now}
}

// Table answers a "show me the data" turn with a coverage table.
func (h *Handler) Table(slots models.Slots) Response {
	res, fail := h.run(slots)
	if fail != nil {
		return *fail
	}
	return Response{
		Text:        coverageText(res),
		Table:       summary.Table(res),
		Commodities: res.Commodities,
	}
}

// Chart answers a "show me the trend" turn with price series.
func (h *Handler) Chart(slots models.Slots) Response {
	res, fail := h.run(slots)
	if fail != nil {
		return *fail
	}
	series := summary.Series(res)
	return Response{
		Text: fmt.Sprintf("Here is the price trend for %s (%s).",
			strings.Join(res.Commodities, ", "), res.Currency),
		Series:      series,
		Commodities: res.Commodities,
	}
}

// run executes one turn and maps the error taxonomy onto user-facing
// failure responses.
func (h *Handler) run(slots models.Slots) (*models.QueryResult, *Response) {
	interval, err := h.resolveInterval(slots)
	if err != nil {
		var up *temporal.ErrUnparseable
		if errors.As(err, &up) {
			return nil, &Response{Text: fmt.Sprintf("I couldn't understand the date %q.", up.Phrase)}
		}
		logger.WithComponent("dialogue").WithError(err).Error("interval resolution failed")
		return nil, &Response{Text: apologyText}
	}

	res, err := query.Execute(h.holder.Get(), slots.Countries, slots.Commodities, interval)
	if err != nil {
		var unsupported *query.UnsupportedCountryError
		if errors.As(err, &unsupported) {
			return nil, &Response{Text: fmt.Sprintf("Sorry, I don't have price data for %q.", unsupported.Name)}
		}
		var noData *query.NoDataError
		if errors.As(err, &noData) {
			return nil, &Response{Text: fmt.Sprintf(
				"I couldn't find any price data between %s and %s.",
				temporal.Format(noData.Interval.Start), temporal.Format(noData.Interval.End))}
		}
		logger.WithComponent("dialogue").WithError(err).Error("query execution failed")
		return nil, &Response{Text: apologyText}
	}
	return res, nil
}

// resolveInterval derives the query interval from the date slots: both
// slots combine chronologically, a single slot spans itself under the
// dual rounding policy, and no slot at all defaults to the configured
// lookback window.
func (h *Handler) resolveInterval(slots models.Slots) (models.DateInterval, error) {
	var phrases []string
	for _, p := range []string{slots.StartDate, slots.EndDate} {
		if strings.TrimSpace(p) != "" {
			phrases = append(phrases, p)
		}
	}

	now := h.now()
	switch len(phrases) {
	case 0:
		return models.DateInterval{Start: now.AddDate(0, 0, -h.lookbackDays), End: now}, nil
	case 1:
		return temporal.Resolve(phrases[0], now)
	default:
		return temporal.ResolveMulti(phrases, now)
	}
}

// coverageText summarizes what the table shows.
func coverageText(res *models.QueryResult) string {
	countries := make(map[string]bool)
	for _, r := range res.Records {
		countries[r.Country] = true
	}
	return fmt.Sprintf("I found data for %d commodity/country combinations across %d countries (%s).",
		len(summaryGroups(res)), len(countries), res.Currency)
}

func summaryGroups(res *models.QueryResult) map[string]bool {
	groups := make(map[string]bool)
	for _, r := range res.Records {
		groups[r.Country+"\x00"+r.Commodity] = true
	}
	return groups
}

// RepeatIntent echoes the recognized intent and entities back to the
// user, mirroring the debugging action of the original assistant.
func RepeatIntent(intent string, entities map[string]string) string {
	msg := fmt.Sprintf("The intent was: %s.", intent)
	if len(entities) == 0 {
		return msg
	}
	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s = %s", k, entities[k]))
	}
	return msg + " The entities were: " + strings.Join(pairs, ", ")
}
