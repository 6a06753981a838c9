package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/pricetalk/pricetalk/pkg/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleSeries() []models.Series {
	return []models.Series{
		{
			Country:   "kenya",
			Commodity: "maize",
			PriceType: models.Wholesale,
			Currency:  "KES",
			Points: []models.SeriesPoint{
				{Date: day("2023-01-15"), Price: 40},
				{Date: day("2023-02-15"), Price: 45},
				{Date: day("2023-03-15"), Price: 42},
			},
		},
		{
			Country:   "kenya",
			Commodity: "maize",
			PriceType: models.Retail,
			Currency:  "KES",
			Points: []models.SeriesPoint{
				{Date: day("2023-01-15"), Price: 50},
				{Date: day("2023-03-15"), Price: 55},
			},
		},
	}
}

func TestPriceChartRendersAllSeries(t *testing.T) {
	svg := PriceChart(sampleSeries(), Config{})

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if got := strings.Count(svg, `<path d="M`); got != 2 {
		t.Errorf("line paths: got %d, want 2", got)
	}
	if !strings.Contains(svg, "kenya / maize (wholesale)") {
		t.Error("missing wholesale legend entry")
	}
	if !strings.Contains(svg, "kenya / maize (retail)") {
		t.Error("missing retail legend entry")
	}
	if !strings.Contains(svg, "Maize prices (KES)") {
		t.Error("missing derived title")
	}
}

func TestPriceChartEmpty(t *testing.T) {
	svg := PriceChart(nil, Config{})
	if !strings.Contains(svg, "No price data") {
		t.Errorf("empty chart: got %q", svg)
	}

	svg = PriceChart([]models.Series{{Country: "kenya"}}, Config{})
	if !strings.Contains(svg, "No price data") {
		t.Error("series without points should render the empty chart")
	}
}

func TestPriceChartSinglePoint(t *testing.T) {
	series := []models.Series{{
		Country:   "kenya",
		Commodity: "maize",
		PriceType: models.Retail,
		Currency:  "KES",
		Points:    []models.SeriesPoint{{Date: day("2023-01-15"), Price: 50}},
	}}

	svg := PriceChart(series, Config{})
	if !strings.Contains(svg, "<circle") {
		t.Error("single observation should render as a point marker")
	}
}

func TestPriceChartTitleOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "Custom title"
	svg := PriceChart(sampleSeries(), cfg)
	if !strings.Contains(svg, "Custom title") {
		t.Error("explicit title ignored")
	}
}

func TestPriceChartEscapesMarkup(t *testing.T) {
	series := sampleSeries()
	series[0].Commodity = `bread <& "rolls">`
	series[1].Commodity = series[0].Commodity

	svg := PriceChart(series, Config{})
	if strings.Contains(svg, `<& "rolls">`) {
		t.Error("commodity name not XML-escaped")
	}
}
