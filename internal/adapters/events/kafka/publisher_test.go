package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, slog.Default())
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	err := p.Publish(context.Background(), "invoice.created", "inv-1", map[string]string{"invoice_number": "INV-001-0001"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "inv-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "invoice.created", string(msg.Headers[0].Value))

	var body struct {
		Type       string            `json:"type"`
		OccurredAt time.Time         `json:"occurred_at"`
		Payload    map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "invoice.created", body.Type)
	assert.True(t, at.Equal(body.OccurredAt))
	assert.Equal(t, "INV-001-0001", body.Payload["invoice_number"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := newPublisher(w, slog.Default())

	err := p.Publish(context.Background(), "rates.refreshed", "MAD", nil)
	assert.EqualError(t, err, "leader not available")
}

func TestPublisher_UnencodablePayload(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, slog.Default())

	err := p.Publish(context.Background(), "rates.refreshed", "MAD", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, w.msgs)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), "x", "y", nil))
	assert.NoError(t, p.Close())
}
