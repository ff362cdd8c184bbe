package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/emit"
	"git.home.luguber.info/inful/kontentsource/internal/source"
)

// SourceCmd implements the 'source' command.
type SourceCmd struct {
	Output string `short:"o" help:"Override the configured output path"`
	DryRun bool   `name:"dry-run" help:"Decorate nodes in memory without writing them"`
	JSON   bool   `name:"json" help:"Print the run summary as JSON"`
}

func (s *SourceCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Output != "" {
		cfg.Output.Path = s.Output
	}

	open := sinkOpener(openSink)
	if s.DryRun {
		open = func(*config.Config) (emit.Sink, func(), error) {
			return &emit.MemorySink{}, func() {}, nil
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner, cleanup, err := newRunnerFactory(open)(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := runner.Run(ctx)
	if summary != nil {
		if perr := printSummary(os.Stdout, summary, s.JSON); perr != nil {
			return perr
		}
	}
	return err
}

func printSummary(w io.Writer, summary *source.RunSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	_, err := fmt.Fprintf(w, "%s: %d types, %d taxonomies, %d items in %dms (%d skipped, %d aborted batches)\n",
		summary.Outcome,
		summary.Counts["types"],
		summary.Counts["taxonomies"],
		summary.Counts["items"],
		summary.DurationMS,
		summary.Skipped(),
		summary.AbortedBatches(),
	)
	return err
}
