package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushErr   error
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestPublisher_Publish(t *testing.T) {
	fc := &fakeConn{}
	p := &Publisher{conn: fc, subject: "kontentsource.runs"}

	require.NoError(t, p.Publish(context.Background(), map[string]int{"items": 3}))
	require.Equal(t, "kontentsource.runs", fc.subject)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(fc.data, &decoded))
	require.Equal(t, 3, decoded["items"])

	p.Close()
	require.True(t, fc.closed)
}

func TestPublisher_Errors(t *testing.T) {
	p := &Publisher{conn: &fakeConn{publishErr: stderrors.New("closed")}, subject: "s"}
	require.True(t, errors.HasCategory(p.Publish(context.Background(), "x"), errors.CategoryNotify))

	p = &Publisher{conn: &fakeConn{flushErr: stderrors.New("timeout")}, subject: "s"}
	require.True(t, errors.HasCategory(p.Publish(context.Background(), "x"), errors.CategoryNotify))

	p = &Publisher{conn: &fakeConn{}, subject: "s"}
	require.True(t, errors.HasCategory(p.Publish(context.Background(), func() {}), errors.CategoryNotify))
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(config.NotifyConfig{})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(config.NotifyConfig{NATSURL: "nats://127.0.0.1:1", Subject: "s"})
	require.True(t, errors.HasCategory(err, errors.CategoryNotify))
}
