// Package emit hands finished nodes to a sink in batches.
package emit

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
)

// Sink registers nodes with the host.
type Sink interface {
	CreateNode(ctx context.Context, node kontent.Node) error
}

// Batch names used by a sourcing run.
const (
	BatchTypes      = "types"
	BatchTaxonomies = "taxonomies"
)

// ItemBatch names the batch of items in a language.
func ItemBatch(language string) string { return "items:" + language }

// BatchResult is the outcome of emitting one batch.
type BatchResult struct {
	Batch   string
	Total   int
	Created int
	Err     error
}

// Aborted reports whether the batch stopped before all nodes were created.
func (r BatchResult) Aborted() bool { return r.Err != nil }

// Emitter seals nodes and passes them to a sink.
type Emitter struct {
	sink Sink
}

// NewEmitter returns an Emitter writing to sink.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit creates nodes in order. The first failure is logged and aborts the
// rest of the batch; nodes are never retried.
func Emit[N kontent.Node](ctx context.Context, e *Emitter, batch string, nodes []N) BatchResult {
	result := BatchResult{Batch: batch, Total: len(nodes)}
	slog.Info("Creating nodes", logfields.Batch(batch), logfields.Count(len(nodes)))

	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}
		if err := e.create(ctx, node); err != nil {
			result.Err = err
			break
		}
		result.Created++
	}

	if result.Err != nil {
		slog.Error("Error when creating nodes, aborting batch",
			logfields.Batch(batch),
			slog.Int("created", result.Created),
			slog.Int("total", result.Total),
			logfields.Error(result.Err))
	}
	return result
}

func (e *Emitter) create(ctx context.Context, node kontent.Node) error {
	sealed, err := kontent.Seal(node)
	if err != nil {
		return err
	}
	slog.Debug("Creating node",
		logfields.NodeID(sealed.NodeID()),
		logfields.Codename(sealed.NodeCodename()),
		logfields.NodeType(sealed.NodeType()))
	if err := e.sink.CreateNode(ctx, sealed); err != nil {
		if errors.IsClassified(err) {
			return err
		}
		return errors.EmissionError("failed to create node").
			WithCause(err).
			WithContext("node_id", sealed.NodeID()).
			WithContext("codename", sealed.NodeCodename()).
			Build()
	}
	return nil
}
