package summary

import (
	"reflect"
	"testing"
	"time"

	"github.com/pricetalk/pricetalk/pkg/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureResult() *models.QueryResult {
	return &models.QueryResult{
		Currency: "USD",
		UseUSD:   true,
		Records: []models.PriceRecord{
			{Country: "kenya", Commodity: "Maize", Date: day(2023, 3, 15), Price: 52, USDPrice: 0.40, PriceType: models.Wholesale},
			{Country: "kenya", Commodity: "Maize", Date: day(2023, 1, 15), Price: 50, USDPrice: 0.39, PriceType: models.Wholesale},
			{Country: "kenya", Commodity: "Maize", Date: day(2023, 2, 15), Price: 51, USDPrice: 0.41, PriceType: models.Retail},
			{Country: "nigeria", Commodity: "Rice", Date: day(2023, 6, 10), Price: 800, USDPrice: 1.74, PriceType: models.Retail},
		},
	}
}

// ── Table mode ──

func TestTableGroupsAndSpans(t *testing.T) {
	table := Table(fixtureResult())

	if !reflect.DeepEqual(table.Columns, []string{"Country", "Commodity", "Start date", "End date"}) {
		t.Errorf("columns: got %v", table.Columns)
	}
	want := [][]string{
		{"kenya", "Maize", "2023-01-15", "2023-03-15"},
		{"nigeria", "Rice", "2023-06-10", "2023-06-10"},
	}
	if !reflect.DeepEqual(table.Data, want) {
		t.Errorf("data:\n got %v\nwant %v", table.Data, want)
	}
}

func TestTableSpanIsObservedCoverageNotRequest(t *testing.T) {
	// The table reflects the min/max dates present in the records, no
	// matter what interval produced them.
	res := fixtureResult()
	res.Interval = models.DateInterval{Start: day(2000, 1, 1), End: day(2030, 1, 1)}
	table := Table(res)
	if table.Data[0][2] != "2023-01-15" || table.Data[0][3] != "2023-03-15" {
		t.Errorf("span: got %v", table.Data[0])
	}
}

// ── Series mode ──

func TestSeriesPartitionsByPricetype(t *testing.T) {
	series := Series(fixtureResult())
	if len(series) != 3 {
		t.Fatalf("series count: got %d, want 3", len(series))
	}

	// Sorted by country, commodity, pricetype: Retail < Wholesale.
	if series[0].PriceType != models.Retail || series[1].PriceType != models.Wholesale {
		t.Errorf("pricetype order: got %s, %s", series[0].PriceType, series[1].PriceType)
	}

	wholesale := series[1]
	if len(wholesale.Points) != 2 {
		t.Fatalf("wholesale points: got %d", len(wholesale.Points))
	}
	if !wholesale.Points[0].Date.Before(wholesale.Points[1].Date) {
		t.Error("points must be date-ascending")
	}
}

func TestSeriesUsesCurrencyPolicy(t *testing.T) {
	res := fixtureResult()
	series := Series(res)
	if series[0].Currency != "USD" {
		t.Errorf("currency label: got %q", series[0].Currency)
	}
	if series[0].Points[0].Price != 0.41 {
		t.Errorf("multi-country price must be usdprice, got %f", series[0].Points[0].Price)
	}

	res.UseUSD = false
	res.Currency = "KES"
	series = Series(res)
	if series[0].Points[0].Price != 51 {
		t.Errorf("native price: got %f", series[0].Points[0].Price)
	}
}

func TestSeriesAbsentPricetypeProducesNoSeries(t *testing.T) {
	res := &models.QueryResult{
		Currency: "KES",
		Records: []models.PriceRecord{
			{Country: "kenya", Commodity: "Beans", Date: day(2023, 2, 1), Price: 120, PriceType: models.Retail},
		},
	}
	series := Series(res)
	if len(series) != 1 {
		t.Fatalf("got %d series", len(series))
	}
	if series[0].PriceType != models.Retail {
		t.Errorf("got %s", series[0].PriceType)
	}
}
