package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
delivery:
  project_id: p-123
languages: [default, cz]
`))
	require.NoError(t, err)
	require.Equal(t, "https://deliver.kontent.ai", cfg.Delivery.BaseURL)
	require.Equal(t, "https://preview-deliver.kontent.ai", cfg.Delivery.PreviewURL)
	require.Equal(t, 30*time.Second, cfg.Delivery.Timeout)
	require.Equal(t, 100, cfg.Delivery.PageSize)
	require.Equal(t, OutputJSON, cfg.Output.Kind)
	require.Equal(t, "./nodes", cfg.Output.Path)
	require.Equal(t, "kontentsource.runs", cfg.Notify.Subject)
	require.False(t, cfg.Notify.Enabled())
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, "default", cfg.DefaultLanguage())
	require.Equal(t, []string{"cz"}, cfg.NonDefaultLanguages())
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("KS_TEST_PROJECT", "from-env")
	cfg, err := Parse([]byte(`
delivery:
  project_id: ${KS_TEST_PROJECT}
  timeout: 5s
  retry:
    mode: Exponential
    max_retries: 4
  headers:
    - header: X-Test
      value: "1"
languages: [en-US]
output:
  kind: SQLite
`))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Delivery.ProjectID)
	require.Equal(t, 5*time.Second, cfg.Delivery.Timeout)
	require.Equal(t, RetryBackoffExponential, cfg.Delivery.Retry.Mode)
	require.Equal(t, 4, cfg.Delivery.Retry.MaxRetries)
	require.Equal(t, []Header{{Header: "X-Test", Value: "1"}}, cfg.Delivery.Headers)
	require.Equal(t, OutputSQLite, cfg.Output.Kind)
	require.Equal(t, "./nodes.db", cfg.Output.Path)
	require.Nil(t, cfg.NonDefaultLanguages())
}

func TestValidateLanguageCodenames(t *testing.T) {
	tests := []struct {
		name      string
		languages []string
		wantErr   bool
	}{
		{name: "single default", languages: []string{"default"}},
		{name: "several", languages: []string{"en", "cz", "de"}},
		{name: "empty", languages: nil, wantErr: true},
		{name: "blank entry", languages: []string{"en", " "}, wantErr: true},
		{name: "duplicate", languages: []string{"en", "cz", "en"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLanguageCodenames(tt.languages)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig))
			classified, _ := errors.AsClassified(err)
			require.True(t, classified.IsFatal())
		})
	}
}

func TestParse_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no languages": "delivery: {project_id: p}\n",
		"no project":   "languages: [en]\n",
		"bad output":   "delivery: {project_id: p}\nlanguages: [en]\noutput: {kind: s3}\n",
		"blank header": "delivery: {project_id: p, headers: [{header: '', value: x}]}\nlanguages: [en]\n",
		"neg retries":  "delivery: {project_id: p, retry: {max_retries: -1}}\nlanguages: [en]\n",
		"invalid yaml": "languages: [en\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kontentsource.yaml")
	t.Setenv("KONTENT_PROJECT_ID", "example-project")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "second init without force must fail")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "example-project", cfg.Delivery.ProjectID)
	require.Equal(t, []string{"default"}, cfg.Languages)
	require.Equal(t, 15*time.Minute, cfg.Watch.Interval)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizeHelpers(t *testing.T) {
	require.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" FIXED "))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("weird"))
	require.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
