package assembly

import (
	"context"
	"strings"
)

// Rate classes used to price labor lines.
const (
	RateManualLabor             = "Manual Labor"
	RateProjectManagement       = "Project Management"
	RateConstructionSupervision = "Construction Supervision"
)

// RateTable supplies hourly rates keyed by rate class.
type RateTable interface {
	LaborRates(ctx context.Context) (map[string]float64, error)
}

// RateTableFunc adapts a function into a RateTable.
type RateTableFunc func(ctx context.Context) (map[string]float64, error)

func (f RateTableFunc) LaborRates(ctx context.Context) (map[string]float64, error) { return f(ctx) }

// DefaultRates returns the built-in hourly rates.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		RateManualLabor:             45,
		RateProjectManagement:       85,
		RateConstructionSupervision: 95,
	}
}

// ResolveRateClass maps a free-text role to a rate class.
func ResolveRateClass(role string) string {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "project"):
		return RateProjectManagement
	case strings.Contains(r, "manual"):
		return RateManualLabor
	default:
		return RateConstructionSupervision
	}
}

// effectiveRates overlays positive table entries onto the defaults. A
// missing or failing table yields the defaults.
func effectiveRates(ctx context.Context, table RateTable) map[string]float64 {
	rates := DefaultRates()
	if table == nil {
		return rates
	}
	loaded, err := table.LaborRates(ctx)
	if err != nil {
		return rates
	}
	for class, rate := range loaded {
		if rate > 0 {
			rates[class] = rate
		}
	}
	return rates
}

func rateFor(rates map[string]float64, class string) float64 {
	if r, ok := rates[class]; ok {
		return r
	}
	return DefaultRates()[RateConstructionSupervision]
}
