package kstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-backend/internal/model"
)

type fakeReader struct {
	msgs   []kafka.Message
	err    error
	cancel context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		if r.err != nil {
			return kafka.Message{}, r.err
		}
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumeSnapshots_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		msgs: []kafka.Message{
			{Key: []byte("products"), Value: []byte(`{"a":{"name":"x"}}`)},
			{Value: []byte(`{}`)},
			{Key: []byte("events"), Value: []byte(`null`)},
		},
		cancel: cancel,
	}

	var got []model.SnapshotMessage
	err := ConsumeSnapshots(ctx, r, func(m model.SnapshotMessage) { got = append(got, m) })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "products", got[0].Path)
	assert.Equal(t, "events", got[1].Path)
}

func TestConsumeSnapshots_ReaderError(t *testing.T) {
	boom := errors.New("broker gone")
	r := &fakeReader{err: boom}
	err := ConsumeSnapshots(context.Background(), r, func(model.SnapshotMessage) {})
	assert.ErrorIs(t, err, boom)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestLeadPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := NewLeadPublisher(w)

	evt := model.LeadSubmitted{ID: "l1", Screen: "service", Kind: model.LeadService, URL: "https://wa.me/1"}
	require.NoError(t, p.PublishLead(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "service", string(w.msgs[0].Key))

	var decoded model.LeadSubmitted
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, evt, decoded)

	w.err = errors.New("down")
	assert.Error(t, p.PublishLead(context.Background(), evt))
}
