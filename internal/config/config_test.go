package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "")
	t.Setenv("SERVICE_RATES", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.ReportCacheTTLSeconds != 300 {
		t.Fatalf("cache ttl = %d, want 300", cfg.ReportCacheTTLSeconds)
	}
	if cfg.ServiceRates != nil {
		t.Fatalf("expected nil rates when unset, got %v", cfg.ServiceRates)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestParseRates(t *testing.T) {
	rates := parseRates("Cuci + Setrika:8000; Cuci Saja:5500 ;;bad;NoRate:;Neg:-1")
	if len(rates) != 2 {
		t.Fatalf("expected 2 rates, got %v", rates)
	}
	if rates["Cuci + Setrika"] != 8000 {
		t.Fatalf("rate = %d, want 8000", rates["Cuci + Setrika"])
	}
	if rates["Cuci Saja"] != 5500 {
		t.Fatalf("rate = %d, want 5500", rates["Cuci Saja"])
	}
}
