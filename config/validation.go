package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

// requiredFields lists the settings each environment cannot run without
var requiredFields = map[Environment][]string{
	Development: {"PRIMARY_API_URL", "JWT_SECRET"},
	CI:          {"PRIMARY_API_URL", "JWT_SECRET"},
	Production:  {"PRIMARY_API_URL", "JWT_SECRET", "DATABASE_URL"},
	Test:        {},
}

// ValidateConfig checks cfg against the requirements of env
func ValidateConfig(cfg *Config, env Environment) error {
	var errs ValidationErrors

	values := map[string]string{
		"PRIMARY_API_URL": cfg.PrimaryAPIURL,
		"JWT_SECRET":      cfg.JWTSecret,
		"DATABASE_URL":    cfg.DatabaseURL,
	}
	for _, field := range requiredFields[env] {
		if values[field] == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	for _, field := range []string{"PRIMARY_API_URL", "FALLBACK_API_URL"} {
		raw := cfg.PrimaryAPIURL
		if field == "FALLBACK_API_URL" {
			raw = cfg.FallbackAPIURL
		}
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: "must be an absolute URL"})
		}
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "REQUEST_TIMEOUT", Message: "must be positive"})
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
