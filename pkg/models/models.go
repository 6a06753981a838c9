// Package models defines the shared data types for PriceTalk: price
// records, resolved entities, date intervals, and the result shapes
// handed to the presentation layer.
package models

import "time"

// DateOnly is the canonical date layout used everywhere in PriceTalk.
const DateOnly = "2006-01-02"

// PriceType is the market-segment tag on each price record.
type PriceType string

const (
	Wholesale PriceType = "Wholesale"
	Retail    PriceType = "Retail"
)

// PriceRecord is one row of a per-country price dataset. Records are
// immutable once loaded; prices are unit-normalized upstream (per KG,
// per L, per Unit, or per Day).
type PriceRecord struct {
	Country   string    `json:"country"`
	Commodity string    `json:"commodity"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`    // native currency
	USDPrice  float64   `json:"usdprice"` // normalized to USD
	Currency  string    `json:"currency"`
	PriceType PriceType `json:"pricetype"`
}

// DateInterval is a closed [Start, End] date range. Start <= End always
// holds for intervals produced by the temporal resolver.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the interval (inclusive).
func (iv DateInterval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// String renders the interval as "YYYY-MM-DD to YYYY-MM-DD".
func (iv DateInterval) String() string {
	return iv.Start.Format(DateOnly) + " to " + iv.End.Format(DateOnly)
}

// ResolvedEntity is the outcome of fuzzy-matching a free-text name
// against a vocabulary. Matched is empty when no candidate scored.
type ResolvedEntity struct {
	Input      string  `json:"input"`
	Matched    string  `json:"matched,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Slots is the structured slot set extracted by the upstream dialogue
// layer for one user turn. Every field may be empty.
type Slots struct {
	Countries   []string `json:"countries,omitempty"`
	Commodities []string `json:"commodities,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
}

// QueryResult is the filtered, country-attributed record set produced by
// the query executor. It is never empty: an empty filter outcome is
// signaled as a NoDataError instead.
type QueryResult struct {
	Records     []PriceRecord `json:"records"`
	Commodities []string      `json:"commodities"` // distinct commodities present, sorted
	Interval    DateInterval  `json:"interval"`
	Currency    string        `json:"currency"` // display currency label
	UseUSD      bool          `json:"use_usd"`  // true when reporting usdprice (multi-country)
}

// ReportedPrice returns the price of r under the result's currency
// policy: usdprice for multi-country results, native price otherwise.
func (q *QueryResult) ReportedPrice(r PriceRecord) float64 {
	if q.UseUSD {
		return r.USDPrice
	}
	return r.Price
}

// TableSummary is the tabular reduction of a query result: one row per
// (country, commodity) group with the observed date span.
type TableSummary struct {
	Columns []string   `json:"columns"`
	Data    [][]string `json:"data"`
}

// SeriesPoint is a single (date, price) observation.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Series is one chart-ready price series for a single
// (country, commodity, pricetype) partition, ordered by date ascending.
type Series struct {
	Country   string        `json:"country"`
	Commodity string        `json:"commodity"`
	PriceType PriceType     `json:"pricetype"`
	Currency  string        `json:"currency"`
	Points    []SeriesPoint `json:"points"`
}

// NewsArticle is a single market headline from an RSS source.
type NewsArticle struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
}
