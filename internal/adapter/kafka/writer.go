package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/navfield-etl/internal/config"
	"github.com/couchcryptid/navfield-etl/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the Writer depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces normalized fixes to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
// Messages are hashed on the fix ID so replays land on the same partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes fixes in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, fixes []domain.NavFix) error {
	if len(fixes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(fixes))
	for i := range fixes {
		msg, err := serializeToMessage(fixes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d fixes: %w", len(msgs), err)
	}
	w.logger.Debug("wrote batch", "size", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NavFix into a Kafka message. Headers are
// sorted by key so output is stable.
func serializeToMessage(fix domain.NavFix) (kafkago.Message, error) {
	out, err := domain.SerializeNavFix(fix)
	if err != nil {
		return kafkago.Message{}, err
	}

	keys := make([]string, 0, len(out.Headers))
	for k := range out.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(out.Headers[k])})
	}

	return kafkago.Message{Key: out.Key, Value: out.Value, Headers: headers}, nil
}
