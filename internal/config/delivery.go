package config

import "time"

// DeliveryConfig mirrors the Delivery API client configuration.
type DeliveryConfig struct {
	ProjectID     string        `yaml:"project_id"`
	PreviewAPIKey string        `yaml:"preview_api_key,omitempty"`
	SecureAPIKey  string        `yaml:"secure_api_key,omitempty"`
	BaseURL       string        `yaml:"base_url,omitempty"`
	PreviewURL    string        `yaml:"preview_url,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	PageSize      int           `yaml:"page_size,omitempty"`
	Headers       []Header      `yaml:"headers,omitempty"`
	Retry         RetryConfig   `yaml:"retry,omitempty"`
}

// Header is a custom HTTP header attached to every Delivery API request.
type Header struct {
	Header string `yaml:"header"`
	Value  string `yaml:"value"`
}

// RetryConfig configures retries of transient Delivery API failures.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries int              `yaml:"max_retries"`
}

// UsePreview reports whether the preview endpoint should be queried.
func (d DeliveryConfig) UsePreview() bool { return d.PreviewAPIKey != "" }
