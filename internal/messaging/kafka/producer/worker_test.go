package producer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeOutboxRepo struct {
	listFn func(call int) ([]kafka.OutboxEvent, error)
	calls  int
	sent   []string
	failed map[string]string
}

func (f *fakeOutboxRepo) WithTx(*gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(context.Context, kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepo) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) {
	f.calls++
	return f.listFn(f.calls)
}
func (f *fakeOutboxRepo) MarkSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

func pendingOnce(events ...kafka.OutboxEvent) func(int) ([]kafka.OutboxEvent, error) {
	return func(call int) ([]kafka.OutboxEvent, error) {
		if call == 1 {
			return events, nil
		}
		return nil, nil
	}
}

type fakeWriter struct {
	writeFn func(msgs []kafkago.Message) error
	batches [][]kafkago.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.batches = append(f.batches, msgs)
	if f.writeFn != nil {
		return f.writeFn(msgs)
	}
	return nil
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestWorker_Flush(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes the batch in one write and marks sent", func(t *testing.T) {
		repo := &fakeOutboxRepo{listFn: pendingOnce(
			kafka.OutboxEvent{ID: "e1", Topic: "t1", AggregateID: "c1", EventType: "company.created", AggregateType: "company", Payload: []byte(`{}`)},
			kafka.OutboxEvent{ID: "e2", Topic: "t2", AggregateID: "u1", EventType: "attendance.recorded", Payload: []byte(`{}`)},
		)}
		writer := &fakeWriter{}

		listed, err := producer.NewWorker(repo, writer, zap.NewNop()).Flush(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, listed)
		assert.Equal(t, []string{"e1", "e2"}, repo.sent)
		require.Len(t, writer.batches, 1)
		msgs := writer.batches[0]
		require.Len(t, msgs, 2)
		assert.Equal(t, "t1", msgs[0].Topic)
		assert.Equal(t, []byte("c1"), msgs[0].Key)
		assert.Equal(t, "company.created", header(msgs[0], "event_type"))
		assert.Equal(t, "company", header(msgs[0], "aggregate_type"))
		assert.Equal(t, "e1", header(msgs[0], "outbox_id"))
	})

	t.Run("per-message failures reschedule only those rows", func(t *testing.T) {
		repo := &fakeOutboxRepo{listFn: pendingOnce(
			kafka.OutboxEvent{ID: "e1", Topic: "bad", Payload: []byte(`{}`)},
			kafka.OutboxEvent{ID: "e2", Topic: "good", Payload: []byte(`{}`)},
		)}
		writer := &fakeWriter{writeFn: func(msgs []kafkago.Message) error {
			return kafkago.WriteErrors{errors.New("unknown topic"), nil}
		}}

		_, err := producer.NewWorker(repo, writer, zap.NewNop()).Flush(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"e2"}, repo.sent)
		assert.Equal(t, map[string]string{"e1": "unknown topic"}, repo.failed)
	})

	t.Run("a failed write reschedules the whole batch", func(t *testing.T) {
		repo := &fakeOutboxRepo{listFn: pendingOnce(
			kafka.OutboxEvent{ID: "e1", Topic: "t1", Payload: []byte(`{}`)},
			kafka.OutboxEvent{ID: "e2", Topic: "t1", Payload: []byte(`{}`)},
		)}
		writer := &fakeWriter{writeFn: func([]kafkago.Message) error { return errors.New("broker down") }}

		_, err := producer.NewWorker(repo, writer, zap.NewNop()).Flush(ctx)

		require.NoError(t, err)
		assert.Empty(t, repo.sent)
		assert.Equal(t, map[string]string{"e1": "broker down", "e2": "broker down"}, repo.failed)
	})

	t.Run("nothing pending skips the writer", func(t *testing.T) {
		repo := &fakeOutboxRepo{listFn: pendingOnce()}
		writer := &fakeWriter{}

		listed, err := producer.NewWorker(repo, writer, zap.NewNop()).Flush(ctx)

		require.NoError(t, err)
		assert.Zero(t, listed)
		assert.Empty(t, writer.batches)
	})

	t.Run("list error is returned", func(t *testing.T) {
		repo := &fakeOutboxRepo{listFn: func(int) ([]kafka.OutboxEvent, error) { return nil, errors.New("db down") }}

		_, err := producer.NewWorker(repo, &fakeWriter{}, zap.NewNop()).Flush(ctx)

		assert.EqualError(t, err, "db down")
	})
}

func TestWorker_RunDrainsFullBatchesWithoutWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &fakeOutboxRepo{}
	repo.listFn = func(call int) ([]kafka.OutboxEvent, error) {
		switch call {
		case 1:
			return []kafka.OutboxEvent{{ID: "e1", Topic: "t"}, {ID: "e2", Topic: "t"}}, nil
		case 2:
			return []kafka.OutboxEvent{{ID: "e3", Topic: "t"}, {ID: "e4", Topic: "t"}}, nil
		default:
			cancel()
			return nil, nil
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.NewWorker(repo, &fakeWriter{}, zap.NewNop(),
			producer.WithBatchSize(2),
			producer.WithPollInterval(time.Hour),
		).Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker waited for the poll interval")
	}
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, repo.sent)
	assert.Equal(t, 3, repo.calls)
}
