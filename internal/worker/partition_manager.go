package worker

import (
	"context"
	"fmt"
	"sync"

	"ledger-service/internal/config"
	"ledger-service/internal/services"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

type PartitionManager struct {
	cfg           *config.Config
	profitService *services.ProfitService
	log           *logrus.Logger
	wg            sync.WaitGroup
}

func NewPartitionManager(cfg *config.Config, profitService *services.ProfitService, log *logrus.Logger) *PartitionManager {
	return &PartitionManager{
		cfg:           cfg,
		profitService: profitService,
		log:           log,
	}
}

func (m *PartitionManager) Start(ctx context.Context) error {
	m.log.WithField("partitions", m.cfg.Kafka.Partitions).Info("starting profit stream workers")

	consumer, err := sarama.NewConsumer(m.cfg.Kafka.Brokers, m.cfg.Kafka.GetSaramaConfig())
	if err != nil {
		return fmt.Errorf("failed to create Kafka consumer: %w", err)
	}
	defer consumer.Close()

	for partition := 0; partition < m.cfg.Kafka.Partitions; partition++ {
		m.wg.Add(1)
		go m.startWorkerForPartition(ctx, consumer, partition)
	}

	// Wait for all workers to complete to prevent program termination
	m.wg.Wait()
	m.log.Info("all partition workers stopped")
	return nil
}

func (m *PartitionManager) startWorkerForPartition(ctx context.Context, consumer sarama.Consumer, partition int) {
	defer m.wg.Done()

	log := m.log.WithField("partition", partition)
	log.Info("starting partition worker")

	// Create a PartitionConsumer for a specific partition
	partitionConsumer, err := consumer.ConsumePartition(
		m.cfg.Kafka.ProfitTopic,
		int32(partition),
		sarama.OffsetNewest,
	)
	if err != nil {
		log.WithError(err).Error("failed to create partition consumer")
		return
	}
	defer partitionConsumer.Close()

	// Create a BatchProcessor for this partition
	batchProcessor := NewBatchProcessor(partition, m.profitService, m.log)

	// Start the main worker loop
	m.runWorker(ctx, partition, partitionConsumer, batchProcessor)
}
