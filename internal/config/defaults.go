package config

import (
	"strings"
	"time"
)

const (
	defaultBaseURL         = "https://deliver.kontent.ai"
	defaultPreviewURL      = "https://preview-deliver.kontent.ai"
	defaultPageSize        = 100
	defaultLinkedItemClass = "kontent-linked-item"
	defaultNotifySubject   = "kontentsource.runs"
)

func applyDefaults(cfg *Config) {
	d := &cfg.Delivery
	if d.BaseURL == "" {
		d.BaseURL = defaultBaseURL
	}
	if d.PreviewURL == "" {
		d.PreviewURL = defaultPreviewURL
	}
	d.BaseURL = strings.TrimSuffix(d.BaseURL, "/")
	d.PreviewURL = strings.TrimSuffix(d.PreviewURL, "/")
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	if d.PageSize <= 0 {
		d.PageSize = defaultPageSize
	}
	if d.Retry.Mode != "" {
		d.Retry.Mode = NormalizeRetryBackoff(string(d.Retry.Mode))
	}

	for i, lang := range cfg.Languages {
		cfg.Languages[i] = strings.TrimSpace(lang)
	}

	if cfg.RichText.LinkPrefix == "" {
		cfg.RichText.LinkPrefix = "/"
	}
	if cfg.RichText.LinkedItemClass == "" {
		cfg.RichText.LinkedItemClass = defaultLinkedItemClass
	}

	if cfg.Output.Kind == "" {
		cfg.Output.Kind = OutputJSON
	}
	cfg.Output.Kind = OutputKind(strings.ToLower(string(cfg.Output.Kind)))
	if cfg.Output.Path == "" {
		if cfg.Output.Kind == OutputSQLite {
			cfg.Output.Path = "./nodes.db"
		} else {
			cfg.Output.Path = "./nodes"
		}
	}

	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = defaultNotifySubject
	}

	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = 15 * time.Minute
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
