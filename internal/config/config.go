package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	ReportCacheTTLSeconds int
	ServiceRates          map[string]int64
	DefaultServiceRate    int64
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, err := strconv.Atoi(getEnv("REPORT_CACHE_TTL_SECONDS", "300"))
	if err != nil || cacheTTL < 1 {
		cacheTTL = 300
	}
	defaultRate, err := strconv.ParseInt(getEnv("DEFAULT_SERVICE_RATE", "6000"), 10, 64)
	if err != nil || defaultRate < 1 {
		defaultRate = 6000
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		ReportCacheTTLSeconds: cacheTTL,
		ServiceRates:          parseRates(os.Getenv("SERVICE_RATES")),
		DefaultServiceRate:    defaultRate,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// parseRates reads a "Label:rate;Label:rate" override list. Malformed
// entries are skipped; an empty result means use the built-in table.
func parseRates(raw string) map[string]int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	rates := make(map[string]int64)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.LastIndex(entry, ":")
		if idx < 1 {
			continue
		}
		label := strings.TrimSpace(entry[:idx])
		rate, err := strconv.ParseInt(strings.TrimSpace(entry[idx+1:]), 10, 64)
		if err != nil || rate < 1 || label == "" {
			continue
		}
		rates[label] = rate
	}
	if len(rates) == 0 {
		return nil
	}
	return rates
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
