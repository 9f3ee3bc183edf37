package pricing

import "math"

// DefaultRate applies to service types missing from the table.
const DefaultRate = 6000

// Table maps a service-type label to its per-kilogram rate in rupiah. It is
// built once at startup and injected into the service; rate changes never
// touch totals already stored.
type Table struct {
	rates       map[string]int64
	defaultRate int64
}

func NewTable(rates map[string]int64, defaultRate int64) Table {
	if defaultRate < 1 {
		defaultRate = DefaultRate
	}
	copied := make(map[string]int64, len(rates))
	for label, rate := range rates {
		if label == "" || rate < 1 {
			continue
		}
		copied[label] = rate
	}
	return Table{rates: copied, defaultRate: defaultRate}
}

// DefaultTable returns the shop's canonical rate table.
func DefaultTable() Table {
	return NewTable(map[string]int64{
		"Cuci + Setrika": 7000,
		"Cuci Saja":      5000,
		"Setrika Saja":   4000,
	}, DefaultRate)
}

// RateFor looks a service type up by exact label; unknown labels fall back to
// the default rate.
func (t Table) RateFor(serviceType string) int64 {
	if rate, ok := t.rates[serviceType]; ok {
		return rate
	}
	return t.defaultRate
}

// OrderTotal computes the frozen price of an order: round(weight * rate),
// half away from zero. This rounding is user-facing money and fixed.
func (t Table) OrderTotal(weightKg float64, serviceType string) int64 {
	return roundTotal(weightKg, float64(t.RateFor(serviceType)))
}

// WageTotal computes an employee's wage for the processed weight.
func WageTotal(weightKg float64, wagePerKg float64) int64 {
	return roundTotal(weightKg, wagePerKg)
}

func roundTotal(weightKg float64, rate float64) int64 {
	return int64(math.Round(weightKg * rate))
}
