// Package notify publishes run summaries to NATS.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Publisher publishes JSON events on one subject.
type Publisher struct {
	conn    conn
	subject string
}

// Connect dials the configured NATS server.
func Connect(cfg config.NotifyConfig) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.ConfigError("notify nats_url is not configured").Build()
	}

	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("kontentsource"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", cfg.NATSURL).
			Build()
	}

	slog.Info("NATS publisher connected", "url", cfg.NATSURL, "subject", cfg.Subject)
	return &Publisher{conn: nc, subject: cfg.Subject}, nil
}

// Publish encodes event as JSON and publishes it, waiting for the server to
// acknowledge the flush.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to marshal event").Warning().Build()
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.NotifyError("failed to publish event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return errors.NotifyError("failed to flush event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published event", "subject", p.subject, "bytes", len(data))
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
