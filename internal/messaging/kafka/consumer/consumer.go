package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// Reader is the subset of *kafkago.Reader the consumers need.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}
