package pricing

import "testing"

func TestOrderTotalKnownServices(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		name        string
		weightKg    float64
		serviceType string
		want        int64
	}{
		{"cuci setrika whole", 3, "Cuci + Setrika", 21000},
		{"cuci setrika fractional", 3.5, "Cuci + Setrika", 24500},
		{"cuci saja", 2, "Cuci Saja", 10000},
		{"setrika saja", 4, "Setrika Saja", 16000},
		{"unknown service falls back", 2, "Dry Clean", 12000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := table.OrderTotal(tc.weightKg, tc.serviceType)
			if got != tc.want {
				t.Fatalf("OrderTotal(%v, %q) = %d, want %d", tc.weightKg, tc.serviceType, got, tc.want)
			}
		})
	}
}

func TestOrderTotalRoundsHalfAwayFromZero(t *testing.T) {
	table := NewTable(map[string]int64{"Kilat": 3}, DefaultRate)

	// 1.5 * 3 = 4.5, rounds to 5.
	if got := table.OrderTotal(1.5, "Kilat"); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestWageTotal(t *testing.T) {
	if got := WageTotal(10, 8000); got != 80000 {
		t.Fatalf("expected 80000, got %d", got)
	}
	if got := WageTotal(2.5, 7000); got != 17500 {
		t.Fatalf("expected 17500, got %d", got)
	}
}

func TestNewTableIgnoresInvalidEntries(t *testing.T) {
	table := NewTable(map[string]int64{"": 5000, "Valid": 0, "Kilat": 9000}, 0)

	if got := table.RateFor("Kilat"); got != 9000 {
		t.Fatalf("expected 9000, got %d", got)
	}
	// Invalid entries fall through to the default rate.
	if got := table.RateFor("Valid"); got != DefaultRate {
		t.Fatalf("expected default rate %d, got %d", DefaultRate, got)
	}
}
