// Package query plans and executes price-data queries: it resolves raw
// country and commodity names against the store vocabularies, filters
// records to a date interval, and applies the cross-country currency
// policy.
package query

import (
	"fmt"
	"sort"

	"github.com/pricetalk/pricetalk/internal/match"
	"github.com/pricetalk/pricetalk/internal/store"
	"github.com/pricetalk/pricetalk/pkg/models"
)

// UnsupportedCountryError aborts a query whose country name has no
// acceptable vocabulary match. The whole query fails; there are no
// partial per-country answers.
type UnsupportedCountryError struct {
	Name string
}

func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("unsupported country %q", e.Name)
}

// NoDataError signals that the query resolved but matched no records in
// the interval. It is a user-visible outcome, not a system failure.
type NoDataError struct {
	Interval models.DateInterval
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no price data in %s", e.Interval)
}

// Execute runs a resolved query against a store snapshot.
//
// Empty countries means every loaded country; empty commodities means
// every commodity a country offers. Each requested commodity is matched
// against the country's own vocabulary, since vocabularies differ per
// country. With exactly one resolved country the result reports native
// prices and currency; with several it reports usdprice labeled USD for
// comparability.
func Execute(s *store.Store, countries, commodities []string, interval models.DateInterval) (*models.QueryResult, error) {
	resolved, err := resolveCountries(s, countries)
	if err != nil {
		return nil, err
	}

	res := &models.QueryResult{
		Interval: interval,
		UseUSD:   len(resolved) > 1,
		Currency: "USD",
	}

	seen := make(map[string]bool)
	for _, country := range resolved {
		wanted := resolveCommodities(s, country, commodities)
		if len(wanted) == 0 {
			continue
		}
		for _, rec := range s.Rows(country) {
			if !wanted[rec.Commodity] || !interval.Contains(rec.Date) {
				continue
			}
			// The record already carries the resolved country name from
			// the store, overwriting whatever spelling the user typed.
			res.Records = append(res.Records, rec)
			if !seen[rec.Commodity] {
				seen[rec.Commodity] = true
				res.Commodities = append(res.Commodities, rec.Commodity)
			}
		}
	}

	if len(res.Records) == 0 {
		return nil, &NoDataError{Interval: interval}
	}
	sort.Strings(res.Commodities)

	if !res.UseUSD {
		res.Currency = res.Records[0].Currency
	}
	return res, nil
}

// resolveCountries fuzzy-matches each requested country against the
// store's country vocabulary. Any rejection aborts the query with
// UnsupportedCountryError; an empty request selects all countries.
func resolveCountries(s *store.Store, countries []string) ([]string, error) {
	if len(countries) == 0 {
		return s.Countries(), nil
	}

	var resolved []string
	seen := make(map[string]bool)
	for _, name := range countries {
		e := match.Match(name, s.Countries())
		if !match.Accept(e) {
			return nil, &UnsupportedCountryError{Name: name}
		}
		if !seen[e.Matched] {
			seen[e.Matched] = true
			resolved = append(resolved, e.Matched)
		}
	}
	return resolved, nil
}

// resolveCommodities builds the wanted-commodity set for one country.
// Unmatchable commodity names contribute nothing; unlike countries they
// never abort the query.
func resolveCommodities(s *store.Store, country string, commodities []string) map[string]bool {
	vocab := s.Commodities(country)
	wanted := make(map[string]bool, len(vocab))

	if len(commodities) == 0 {
		for _, c := range vocab {
			wanted[c] = true
		}
		return wanted
	}

	for _, name := range commodities {
		for _, m := range match.Commodities(name, vocab) {
			wanted[m] = true
		}
	}
	return wanted
}
