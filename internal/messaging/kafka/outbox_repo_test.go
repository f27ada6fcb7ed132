package kafka_test

import (
	"context"
	"testing"

	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")

	event, err := kafka.NewOutboxEvent(ctx, "company", "c1", "company_created", "topic", map[string]string{"a": "b"})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.JSONEq(t, `{"a":"b"}`, string(event.Payload))
	assert.NoError(t, kafka.ValidateOutboxEvent(event))
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending}

	tests := []struct {
		name   string
		mutate func(e *kafka.OutboxEvent)
		errMsg string
	}{
		{"missing id", func(e *kafka.OutboxEvent) { e.ID = "" }, "outbox id is required"},
		{"missing topic", func(e *kafka.OutboxEvent) { e.Topic = "" }, "outbox topic is required"},
		{"missing payload", func(e *kafka.OutboxEvent) { e.Payload = nil }, "outbox payload is required"},
		{"bad status", func(e *kafka.OutboxEvent) { e.Status = "x" }, "invalid outbox status: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.EqualError(t, kafka.ValidateOutboxEvent(e), tt.errMsg)
		})
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := kafka.NewOutboxRepository(db)

	event := kafka.OutboxEvent{ID: "11111111-1111-1111-1111-111111111111", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending}
	mock.ExpectExec(`INSERT INTO outbox_events`).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), event))
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	db, _ := dbtest.New(t)
	repo := kafka.NewOutboxRepository(db)

	err := repo.Create(context.Background(), kafka.OutboxEvent{})

	assert.EqualError(t, err, "outbox id is required")
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(kafka.OutboxStatusSent, "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), "e1"))
}
