package updater

import (
	"strconv"
	"strings"
)

// unitAliases are container-style units that count as one item each.
var unitAliases = []string{
	"packet", "sack", "package", "course", "head", "bunch",
	"box", "bar", "pcs", "brush", "loaf", "pair",
}

// unitScale maps a canonical source unit to its normalized unit and the
// divisor applied to price and usdprice. MT becomes KG per kilogram, a
// Gallon becomes L per litre, and so on.
var unitScale = map[string]struct {
	unit    string
	divisor float64
}{
	"MT":        {"KG", 1000},
	"G":         {"KG", 0.001},
	"Libra":     {"KG", 0.3289},
	"Pound":     {"KG", 0.45359237},
	"Cuartilla": {"KG", 2.875575},
	"ML":        {"L", 0.001},
	"Gallon":    {"L", 3.78541},
	"Month":     {"Day", 30},
	"Marmite":   {"KG", 2.445},
}

// terminalUnits need no rescaling: the price already refers to a single
// canonical unit. Rate-style units ("USD/...") pass through too.
var terminalUnits = map[string]bool{
	"unit": true, "day": true, "kg": true, "l": true,
	"kwh": true, "cylinder": true,
}

// NormalizeUnit converts a WFP unit string and its prices to the
// canonical per-unit form (KG, L, Day, Unit, KWh, Cylinder). The
// returned bool is false when the unit was not recognized, in which
// case the inputs come back unchanged.
func NormalizeUnit(unit string, price, usdPrice float64) (string, float64, float64, bool) {
	lower := strings.ToLower(unit)

	if terminalUnits[lower] || strings.HasPrefix(lower, "usd/") {
		return unit, price, usdPrice, true
	}
	for _, alias := range unitAliases {
		if lower == alias {
			return "Unit", price, usdPrice, true
		}
	}

	switch lower {
	case "cubic meter":
		return "L", price / 1000, usdPrice / 1000, true
	case "dozen":
		return "Unit", price / 12, usdPrice / 12, true
	}

	if s, ok := unitScale[unit]; ok {
		return s.unit, price / s.divisor, usdPrice / s.divisor, true
	}

	// Compound units like "50 KG" or "1.5 L": divide down to one of the
	// base unit, then rescale the base if it needs it.
	if n, base, ok := splitCompound(unit); ok {
		price /= n
		usdPrice /= n
		if s, ok := unitScale[base]; ok {
			return s.unit, price / s.divisor, usdPrice / s.divisor, true
		}
		return base, price, usdPrice, true
	}

	return unit, price, usdPrice, false
}

// splitCompound parses "N unit" strings such as "90 KG" or "1.5 L".
func splitCompound(unit string) (float64, string, bool) {
	fields := strings.Fields(unit)
	if len(fields) != 2 {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || n == 0 {
		return 0, "", false
	}
	return n, fields[1], true
}
