package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kontentsource/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"kontentsource.yaml" env:"KONTENTSOURCE_CONFIG"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `name:"log-level" help:"Log level (debug, info, warn, error)" env:"KONTENTSOURCE_LOG_LEVEL"`
	LogFormat string           `name:"log-format" help:"Log format (text, json)" env:"KONTENTSOURCE_LOG_FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Source   SourceCmd   `cmd:"" default:"1" help:"Fetch, decorate and emit nodes once"`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration file"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Re-source on a schedule and on configuration changes"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	c.setupLogging(config.LoggingConfig{})
	return nil
}

// setupLogging installs the default slog handler. Flags and environment win
// over the configuration file.
func (c *CLI) setupLogging(fromConfig config.LoggingConfig) {
	level := fromConfig.Level
	if c.LogLevel != "" {
		level = config.NormalizeLogLevel(c.LogLevel)
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	format := fromConfig.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the configuration and applies its logging settings.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	c.setupLogging(cfg.Logging)
	return cfg, nil
}
