package kafkarepo

import (
	"context"
	"encoding/json"
	"fmt"

	"ledger-service/internal/models"

	"github.com/segmentio/kafka-go"
)

type EventRepository struct {
	writer *kafka.Writer
}

func NewEventRepository(writer *kafka.Writer) *EventRepository {
	return &EventRepository{
		writer: writer,
	}
}

// PublishTransaction sends a ledger event to Kafka
func (r *EventRepository) PublishTransaction(ctx context.Context, event models.LedgerEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	// Use userID as key to guarantee ordering of events for the same account
	err = r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: msgBytes,
	})

	if err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}

	return nil
}
