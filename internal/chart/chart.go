// Package chart renders price series as standalone SVG line charts.
// Pure string assembly, no drawing dependency: charts are embedded in
// API responses and written to files by the CLI.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pricetalk/pricetalk/pkg/models"
)

// Config holds rendering parameters for SVG charts.
type Config struct {
	Width        int    // SVG width in pixels
	Height       int    // SVG height in pixels
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	BgColor      string
	GridColor    string
	TextColor    string
	FontSize     int
	Title        string
}

// DefaultConfig returns sensible defaults for chart rendering.
func DefaultConfig() Config {
	return Config{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c Config) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

var seriesColors = []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4"}

// PriceChart renders the series returned by a price query as one SVG
// line chart. Each series gets its own colored line and legend entry;
// the X axis spans the union of all observation dates.
func PriceChart(series []models.Series, cfg Config) string {
	series = nonEmpty(series)
	if len(series) == 0 {
		return emptySVG(cfg, "No price data")
	}

	if cfg.Width == 0 {
		cfg = DefaultConfig()
	}
	if cfg.Title == "" {
		cfg.Title = chartTitle(series)
	}

	px, py, pw, ph := cfg.plotArea()

	minDate, maxDate := dateRange(series)
	span := maxDate.Sub(minDate)
	if span <= 0 {
		span = 24 * time.Hour
	}

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		for _, p := range s.Points {
			if p.Price < minVal {
				minVal = p.Price
			}
			if p.Price > maxVal {
				maxVal = p.Price
			}
		}
	}
	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.05
	maxVal += vRange * 0.05
	vRange = maxVal - minVal

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid and price labels.
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}

	dateToX := func(d time.Time) float64 {
		return float64(px) + float64(d.Sub(minDate))/float64(span)*float64(pw)
	}
	priceToY := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}

	for si, s := range series {
		color := seriesColors[si%len(seriesColors)]

		var pathParts []string
		for _, p := range s.Points {
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, dateToX(p.Date), priceToY(p.Price)))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
				strings.Join(pathParts, " "), color))
		} else {
			// A single observation still deserves a mark.
			p := s.Points[0]
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`,
				dateToX(p.Date), priceToY(p.Price), color))
		}

		ly := py + 10 + si*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(legendLabel(s))))
	}

	// X-axis date labels.
	ticks := 6
	for i := 0; i <= ticks; i++ {
		d := minDate.Add(time.Duration(float64(span) * float64(i) / float64(ticks)))
		x := dateToX(d)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			x, py+ph+18, cfg.FontSize-1, cfg.TextColor, d.Format("Jan 2006")))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func nonEmpty(series []models.Series) []models.Series {
	out := series[:0:0]
	for _, s := range series {
		if len(s.Points) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func dateRange(series []models.Series) (time.Time, time.Time) {
	min, max := series[0].Points[0].Date, series[0].Points[0].Date
	for _, s := range series {
		for _, p := range s.Points {
			if p.Date.Before(min) {
				min = p.Date
			}
			if p.Date.After(max) {
				max = p.Date
			}
		}
	}
	return min, max
}

// chartTitle derives a title from the series: the shared commodity and
// currency when there is one, a generic header otherwise.
func chartTitle(series []models.Series) string {
	commodity := series[0].Commodity
	currency := series[0].Currency
	for _, s := range series[1:] {
		if s.Commodity != commodity {
			commodity = ""
		}
		if s.Currency != currency {
			currency = ""
		}
	}
	switch {
	case commodity != "" && currency != "":
		return fmt.Sprintf("%s prices (%s)", titleCase(commodity), currency)
	case currency != "":
		return fmt.Sprintf("Commodity prices (%s)", currency)
	default:
		return "Commodity prices"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func legendLabel(s models.Series) string {
	return fmt.Sprintf("%s / %s (%s)", s.Country, s.Commodity, strings.ToLower(string(s.PriceType)))
}

func svgHeader(cfg Config) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg Config, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
