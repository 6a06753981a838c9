// Package summary reduces a filtered query result into its two
// presentation shapes: a coverage table grouped by country and
// commodity, or chart-ready price series split by pricetype.
package summary

import (
	"sort"

	"github.com/pricetalk/pricetalk/pkg/models"
)

// TableColumns is the fixed column order of the tabular reduction.
var TableColumns = []string{"Country", "Commodity", "Start date", "End date"}

// Table groups the result by (country, commodity) and emits one row per
// group with the observed date span — the coverage actually present in
// the data, not the interval the user asked for.
func Table(res *models.QueryResult) *models.TableSummary {
	type span struct {
		min, max int // record indices carrying the extreme dates
	}
	type key struct{ country, commodity string }

	spans := make(map[key]*span)
	var order []key
	for i, rec := range res.Records {
		k := key{rec.Country, rec.Commodity}
		sp, ok := spans[k]
		if !ok {
			spans[k] = &span{min: i, max: i}
			order = append(order, k)
			continue
		}
		if rec.Date.Before(res.Records[sp.min].Date) {
			sp.min = i
		}
		if rec.Date.After(res.Records[sp.max].Date) {
			sp.max = i
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].country != order[j].country {
			return order[i].country < order[j].country
		}
		return order[i].commodity < order[j].commodity
	})

	table := &models.TableSummary{Columns: TableColumns}
	for _, k := range order {
		sp := spans[k]
		table.Data = append(table.Data, []string{
			k.country,
			k.commodity,
			res.Records[sp.min].Date.Format(models.DateOnly),
			res.Records[sp.max].Date.Format(models.DateOnly),
		})
	}
	return table
}

// Series partitions the result by (country, commodity, pricetype) and
// returns date-ascending price series under the result's currency
// policy. Wholesale and Retail become independent series; a pricetype
// with no rows simply produces no series.
func Series(res *models.QueryResult) []models.Series {
	type key struct {
		country, commodity string
		priceType          models.PriceType
	}

	parts := make(map[key]*models.Series)
	var order []key
	for _, rec := range res.Records {
		k := key{rec.Country, rec.Commodity, rec.PriceType}
		s, ok := parts[k]
		if !ok {
			s = &models.Series{
				Country:   rec.Country,
				Commodity: rec.Commodity,
				PriceType: rec.PriceType,
				Currency:  res.Currency,
			}
			parts[k] = s
			order = append(order, k)
		}
		s.Points = append(s.Points, models.SeriesPoint{
			Date:  rec.Date,
			Price: res.ReportedPrice(rec),
		})
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.country != b.country {
			return a.country < b.country
		}
		if a.commodity != b.commodity {
			return a.commodity < b.commodity
		}
		return a.priceType < b.priceType
	})

	out := make([]models.Series, 0, len(order))
	for _, k := range order {
		s := parts[k]
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].Date.Before(s.Points[j].Date)
		})
		out = append(out, *s)
	}
	return out
}
