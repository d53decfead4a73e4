package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
exchange:
  tick_size: "0.01"
  lot_size: 1
  min_quantity: 1
  max_quantity: 1000
  min_notional: "1.00"
  price_unit: 100
day_reset:
  hour: 16
  minute: 0
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules, err := cfg.ExchangeRules()
	if err != nil {
		t.Fatalf("unexpected error building exchange rules: %v", err)
	}
	if rules.TickSize != 1 {
		t.Errorf("expected tick size 1 (one cent at price_unit 100), got %d", rules.TickSize)
	}
	if rules.MinNotional != 100 {
		t.Errorf("expected min notional 100 ticks, got %d", rules.MinNotional)
	}
	if cfg.DayReset.Hour != 16 {
		t.Errorf("expected day reset hour 16, got %d", cfg.DayReset.Hour)
	}
}

func TestLoadRejectsMisalignedTickSize(t *testing.T) {
	path := writeTempConfig(t, `
exchange:
  tick_size: "0.001"
  lot_size: 1
  min_quantity: 1
  max_quantity: 1000
  min_notional: "0"
  price_unit: 100
day_reset:
  hour: 15
  minute: 59
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading a tick size that doesn't align to price_unit")
	}
}

func TestLoadRejectsInvalidDayResetTime(t *testing.T) {
	path := writeTempConfig(t, `
exchange:
  tick_size: "0.01"
  lot_size: 1
  min_quantity: 1
  max_quantity: 1000
  min_notional: "0"
  price_unit: 100
day_reset:
  hour: 24
  minute: 0
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading an invalid day_reset hour")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("expected the built-in defaults to validate, got %v", err)
	}
}
