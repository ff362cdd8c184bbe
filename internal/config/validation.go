package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// Validate checks the defaulted configuration. Every failure is a fatal config error
// so a run aborts before any fetch happens.
func Validate(cfg *Config) error {
	if err := ValidateLanguageCodenames(cfg.Languages); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Delivery.ProjectID) == "" {
		return errors.ConfigError("delivery project_id is required").WithContext("field", "delivery.project_id").Build()
	}
	for i, h := range cfg.Delivery.Headers {
		if strings.TrimSpace(h.Header) == "" {
			return errors.ConfigError("custom header name cannot be empty").
				WithContext("field", fmt.Sprintf("delivery.headers[%d]", i)).
				Build()
		}
	}
	if cfg.Delivery.Retry.MaxRetries < 0 {
		return errors.ConfigError("retry max_retries cannot be negative").WithContext("field", "delivery.retry.max_retries").Build()
	}
	switch cfg.Output.Kind {
	case OutputJSON, OutputSQLite:
	default:
		return errors.ConfigError("unsupported output kind").
			WithContext("field", "output.kind").
			WithContext("value", string(cfg.Output.Kind)).
			Build()
	}
	return nil
}

// ValidateLanguageCodenames checks the ordered language list. The first entry is the
// default language; the list must be non-empty, blank-free and duplicate-free.
func ValidateLanguageCodenames(languages []string) error {
	if len(languages) == 0 {
		return errors.ConfigError("language codenames must not be empty").WithContext("field", "languages").Build()
	}
	seen := make(map[string]struct{}, len(languages))
	for i, lang := range languages {
		if strings.TrimSpace(lang) == "" {
			return errors.ConfigError("language codename cannot be blank").
				WithContext("field", fmt.Sprintf("languages[%d]", i)).
				Build()
		}
		if _, dup := seen[lang]; dup {
			return errors.ConfigError("duplicate language codename").
				WithContext("field", fmt.Sprintf("languages[%d]", i)).
				WithContext("value", lang).
				Build()
		}
		seen[lang] = struct{}{}
	}
	return nil
}
