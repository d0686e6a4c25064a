package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/navfield-etl/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher hands out queued messages, then blocks until the context ends.
type fakeFetcher struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	fetchErr  error
	committed []int64
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	if f.fetchErr != nil {
		f.mu.Unlock()
		return kafkago.Message{}, f.fetchErr
	}
	if len(f.msgs) > 0 {
		msg := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeFetcher) Close() error { return nil }

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func messages(n int) []kafkago.Message {
	msgs := make([]kafkago.Message, n)
	for i := range msgs {
		msgs[i] = kafkago.Message{Topic: "nmea-fields", Offset: int64(i), Value: []byte(`{"type":"GPRMC"}`)}
	}
	return msgs
}

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"type":"GPRMC"}`),
		Topic:     "nmea-fields",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "receiver", Value: []byte("bridge-1")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"type":"GPRMC"}`, string(raw.Value))
	assert.Equal(t, "nmea-fields", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "bridge-1", raw.Headers["receiver"])
	assert.Nil(t, raw.Commit)
}

func TestReader_ExtractBatch_FullBatch(t *testing.T) {
	fetcher := &fakeFetcher{msgs: messages(5)}
	r := &Reader{reader: fetcher, flushInterval: time.Second, logger: discardLogger()}

	batch, err := r.ExtractBatch(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, int64(2), batch[2].Offset)

	require.NoError(t, batch[1].Commit(context.Background()))
	assert.Equal(t, []int64{1}, fetcher.committed)
}

func TestReader_ExtractBatch_FlushesPartialBatch(t *testing.T) {
	fetcher := &fakeFetcher{msgs: messages(2)}
	r := &Reader{reader: fetcher, flushInterval: 20 * time.Millisecond, logger: discardLogger()}

	batch, err := r.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

func TestReader_ExtractBatch_ParentCancelled(t *testing.T) {
	r := &Reader{reader: &fakeFetcher{}, flushInterval: time.Second, logger: discardLogger()}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.ExtractBatch(ctx, 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReader_ExtractBatch_FetchError(t *testing.T) {
	r := &Reader{reader: &fakeFetcher{fetchErr: errors.New("broker gone")}, flushInterval: time.Second, logger: discardLogger()}

	_, err := r.ExtractBatch(context.Background(), 10)
	assert.EqualError(t, err, "broker gone")
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 9, 10, 0, time.UTC)
	fix := domain.NavFix{
		ID:           "rmc-1",
		SentenceType: "RMC",
		Position:     &domain.Position{Latitude: 48.1173, Longitude: 11.516667},
		ProcessedAt:  now,
	}

	msg, err := serializeToMessage(fix)
	require.NoError(t, err)

	assert.Equal(t, []byte("rmc-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"sentence_type":"RMC"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "processed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "sentence_type", msg.Headers[1].Key)
	assert.Equal(t, []byte("RMC"), msg.Headers[1].Value)
}

func TestWriter_LoadBatch(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: discardLogger()}

	require.NoError(t, w.LoadBatch(context.Background(), nil))
	assert.Empty(t, fw.msgs)

	err := w.LoadBatch(context.Background(), []domain.NavFix{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 2)
	assert.Equal(t, []byte("b"), fw.msgs[1].Key)

	fw.err = errors.New("not leader")
	err = w.LoadBatch(context.Background(), []domain.NavFix{{ID: "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write 1 fixes")
}
