package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

// AppConfig is the server configuration read from the environment.
type AppConfig struct {
	ServerPort           string
	JWTSecret            string
	JWTExpirationHours   int64
	RulesFile            string
	WeekEnd              time.Weekday
	Location             *time.Location
	Epsilon              decimal.Decimal
	Target               *model.ReconciliationTarget
	AllocationWorkers    int
	LogLevel             string
	InitialAdminUsername string
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// ParseWeekday accepts English day names, three letter abbreviations or 0-6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	for name, d := range weekdays {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", s)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadAppConfig reads AppConfig from the environment. The reconciliation
// target is optional; when RECON_TARGET_TOTAL is unset no check is made.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		ServerPort:           getenv("SERVER_PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		RulesFile:            os.Getenv("RULES_FILE"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		InitialAdminUsername: os.Getenv("INITIAL_ADMIN_USERNAME"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	hours, err := strconv.ParseInt(getenv("JWT_EXPIRATION_HOURS", "24"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}
	cfg.JWTExpirationHours = hours

	if cfg.WeekEnd, err = ParseWeekday(getenv("WEEK_END_DAY", "thursday")); err != nil {
		return nil, fmt.Errorf("invalid WEEK_END_DAY: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(getenv("LEDGER_TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}

	if cfg.Epsilon, err = decimal.NewFromString(getenv("BALANCE_EPSILON", "0.01")); err != nil {
		return nil, fmt.Errorf("invalid BALANCE_EPSILON: %w", err)
	}

	if cfg.AllocationWorkers, err = strconv.Atoi(getenv("ALLOCATION_WORKERS", "1")); err != nil {
		return nil, fmt.Errorf("invalid ALLOCATION_WORKERS: %w", err)
	}

	if raw := os.Getenv("RECON_TARGET_TOTAL"); raw != "" {
		target := &model.ReconciliationTarget{}
		if target.Total, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("invalid RECON_TARGET_TOTAL: %w", err)
		}
		if target.Tolerance, err = decimal.NewFromString(getenv("RECON_TOLERANCE", "0.01")); err != nil {
			return nil, fmt.Errorf("invalid RECON_TOLERANCE: %w", err)
		}
		if rawCount := os.Getenv("RECON_TARGET_COUNT"); rawCount != "" {
			n, err := strconv.Atoi(rawCount)
			if err != nil {
				return nil, fmt.Errorf("invalid RECON_TARGET_COUNT: %w", err)
			}
			target.Count = &n
		}
		cfg.Target = target
	}
	return cfg, nil
}
