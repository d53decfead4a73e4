// Package config loads the book's exchange rules and daily reset schedule
// from a YAML document. Grounded on chycee-cryptoGo's internal/infra/
// config.go: same os.ReadFile + yaml.Unmarshal + Validate shape. Tick size
// and minimum notional are authored as human-readable decimal strings
// ("0.01") and converted to the book's integer tick representation with
// shopspring/decimal, so operators never have to hand-compute raw ticks.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/trading-engine/internal/book"
)

// Config is the full set of book configuration loaded from YAML.
type Config struct {
	Exchange struct {
		TickSize    string `yaml:"tick_size"`
		LotSize     uint32 `yaml:"lot_size"`
		MinQuantity uint32 `yaml:"min_quantity"`
		MaxQuantity uint32 `yaml:"max_quantity"`
		MinNotional string `yaml:"min_notional"`
		// PriceUnit is how many integer ticks make up one unit of
		// TickSize/MinNotional's decimal scale (e.g. 100 if those are
		// quoted in dollars but the book prices in cents).
		PriceUnit int64 `yaml:"price_unit"`
	} `yaml:"exchange"`

	DayReset struct {
		Hour   int `yaml:"hour"`
		Minute int `yaml:"minute"`
	} `yaml:"day_reset"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a Config matching the book's own built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Exchange.TickSize = "0.01"
	cfg.Exchange.LotSize = 1
	cfg.Exchange.MinQuantity = 1
	cfg.Exchange.MaxQuantity = 1_000_000
	cfg.Exchange.MinNotional = "0"
	cfg.Exchange.PriceUnit = 100
	cfg.DayReset.Hour = 15
	cfg.DayReset.Minute = 59
	cfg.Logging.Level = "info"
	return cfg
}

// Validate checks the configuration is internally consistent before it is
// used to build an ExchangeRules.
func (c *Config) Validate() error {
	if c.Exchange.MinQuantity == 0 {
		return fmt.Errorf("exchange.min_quantity must be positive")
	}
	if c.Exchange.MaxQuantity < c.Exchange.MinQuantity {
		return fmt.Errorf("exchange.max_quantity must be >= min_quantity")
	}
	if c.DayReset.Hour < 0 || c.DayReset.Hour > 23 {
		return fmt.Errorf("day_reset.hour must be 0-23")
	}
	if c.DayReset.Minute < 0 || c.DayReset.Minute > 59 {
		return fmt.Errorf("day_reset.minute must be 0-59")
	}
	if c.Exchange.PriceUnit <= 0 {
		return fmt.Errorf("exchange.price_unit must be positive")
	}
	if _, err := c.tickSizeTicks(); err != nil {
		return fmt.Errorf("exchange.tick_size: %w", err)
	}
	if _, err := c.minNotionalTicks(); err != nil {
		return fmt.Errorf("exchange.min_notional: %w", err)
	}
	return nil
}

func (c *Config) tickSizeTicks() (book.Price, error) {
	return decimalToTicks(c.Exchange.TickSize, c.Exchange.PriceUnit)
}

func (c *Config) minNotionalTicks() (int64, error) {
	ticks, err := decimalToTicks(c.Exchange.MinNotional, c.Exchange.PriceUnit)
	return int64(ticks), err
}

// decimalToTicks converts a human decimal amount (e.g. "0.01" dollars) into
// an integer tick count, scaled by priceUnit (the number of ticks per unit
// of the decimal's scale).
func decimalToTicks(amount string, priceUnit int64) (book.Price, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", amount, err)
	}
	scaled := d.Mul(decimal.NewFromInt(priceUnit))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%q does not align to the configured price_unit %d", amount, priceUnit)
	}
	return book.Price(scaled.IntPart()), nil
}

// ExchangeRules builds a book.ExchangeRules from this configuration.
func (c *Config) ExchangeRules() (book.ExchangeRules, error) {
	tickSize, err := c.tickSizeTicks()
	if err != nil {
		return book.ExchangeRules{}, err
	}
	minNotional, err := c.minNotionalTicks()
	if err != nil {
		return book.ExchangeRules{}, err
	}

	return book.ExchangeRules{
		TickSize:    tickSize,
		LotSize:     book.Quantity(c.Exchange.LotSize),
		MinQuantity: book.Quantity(c.Exchange.MinQuantity),
		MaxQuantity: book.Quantity(c.Exchange.MaxQuantity),
		MinNotional: minNotional,
	}, nil
}
