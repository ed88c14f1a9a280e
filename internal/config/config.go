package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"microfin-ledger/internal/domain/collateral"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Lending parameters (read-only inputs to the engine).
	InterestRate            float64
	DefaultCollateralRate   float64
	CollateralBrackets      []collateral.Bracket
	DefaultInstallmentCount int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func Load() (*Config, error) {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "microfin"),
		MySQLUser: getenv("MYSQL_USER", "microfin"),
		MySQLPass: getenv("MYSQL_PASS", "microfin"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		InterestRate:            getenvFloat("INTEREST_RATE", 0.15),
		DefaultCollateralRate:   getenvFloat("DEFAULT_COLLATERAL_RATE", 10),
		DefaultInstallmentCount: 23,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("DEFAULT_INSTALLMENT_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DefaultInstallmentCount = n
		}
	}
	if v := os.Getenv("COLLATERAL_BRACKETS"); v != "" {
		brackets, err := ParseBrackets(v)
		if err != nil {
			return nil, fmt.Errorf("COLLATERAL_BRACKETS: %w", err)
		}
		c.CollateralBrackets = brackets
	}
	return c, nil
}

// ParseBrackets parses "min-max:rate" comma-separated ranges, e.g.
// "0-100000:5,100000-500000:8". An empty rate ("min-max:") keeps the default
// system rate for that range.
func ParseBrackets(raw string) ([]collateral.Bracket, error) {
	var out []collateral.Bracket
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rangeAndRate := strings.SplitN(part, ":", 2)
		if len(rangeAndRate) != 2 {
			return nil, fmt.Errorf("bracket %q: want min-max:rate", part)
		}
		bounds := strings.SplitN(rangeAndRate[0], "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("bracket %q: want min-max:rate", part)
		}
		min, err := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bracket %q: bad min: %w", part, err)
		}
		max, err := strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bracket %q: bad max: %w", part, err)
		}
		if max <= min {
			return nil, fmt.Errorf("bracket %q: max must exceed min", part)
		}
		b := collateral.Bracket{Min: min, Max: max}
		if rateStr := strings.TrimSpace(rangeAndRate[1]); rateStr != "" {
			rate, err := strconv.ParseFloat(rateStr, 64)
			if err != nil {
				return nil, fmt.Errorf("bracket %q: bad rate: %w", part, err)
			}
			b.Rate = &rate
		}
		out = append(out, b)
	}
	return out, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.InterestRate < 0 {
		return errors.New("INTEREST_RATE must be >= 0")
	}
	if c.DefaultCollateralRate < 0 {
		return errors.New("DEFAULT_COLLATERAL_RATE must be >= 0")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
