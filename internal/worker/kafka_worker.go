package worker

import (
	"context"
	"encoding/json"
	"time"

	"ledger-service/internal/models"

	"github.com/IBM/sarama"
)

func (m *PartitionManager) runWorker(ctx context.Context, partition int, partitionConsumer sarama.PartitionConsumer, batchProcessor *BatchProcessor) {
	log := m.log.WithField("partition", partition)

	ticker := time.NewTicker(m.cfg.Worker.ProcessingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Context canceled - terminating work
			log.Info("shutdown signal received")
			batchProcessor.ProcessRemaining()
			return

		case msg := <-partitionConsumer.Messages():
			// New message from Kafka
			var credit models.ProfitCreditMessage
			if err := json.Unmarshal(msg.Value, &credit); err != nil {
				log.WithError(err).Error("failed to unmarshal profit credit message")
				continue
			}
			batchProcessor.AddMessage(msg, credit)

		case err := <-partitionConsumer.Errors():
			// Error from Kafka
			log.WithError(err).Error("kafka error")

		case <-ticker.C:
			// The timer has triggered - we process the batch
			batchProcessor.ProcessBatch()
		}
	}
}
