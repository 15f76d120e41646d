package worker

import (
	"sync"
	"time"

	"ledger-service/internal/models"
	"ledger-service/internal/services"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

type BatchProcessor struct {
	partitionID   int
	profitService *services.ProfitService
	log           *logrus.Logger
	messages      []*sarama.ConsumerMessage
	credits       []models.ProfitCreditMessage
	mutex         sync.Mutex
	lastProcessed time.Time
}

func NewBatchProcessor(partitionID int, profitService *services.ProfitService, log *logrus.Logger) *BatchProcessor {
	return &BatchProcessor{
		partitionID:   partitionID,
		profitService: profitService,
		log:           log,
		messages:      make([]*sarama.ConsumerMessage, 0),
		credits:       make([]models.ProfitCreditMessage, 0),
		lastProcessed: time.Now(),
	}
}

func (bp *BatchProcessor) AddMessage(msg *sarama.ConsumerMessage, credit models.ProfitCreditMessage) {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	bp.messages = append(bp.messages, msg)
	bp.credits = append(bp.credits, credit)
}

func (bp *BatchProcessor) ProcessBatch() {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	bp.processBatchLocked()
}

func (bp *BatchProcessor) processBatchLocked() {
	if len(bp.messages) == 0 {
		return
	}

	log := bp.log.WithField("partition", bp.partitionID)
	log.WithField("count", len(bp.messages)).Info("processing profit credit batch")

	userCredits := bp.groupByUser()

	// Apply credits for each account; one failed account does not block the rest
	for userID, credits := range userCredits {
		if err := bp.profitService.ProcessUserCredits(userID, credits); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("failed to apply profit credits")
			continue
		}
	}

	// Clear the batch
	bp.messages = bp.messages[:0]
	bp.credits = bp.credits[:0]
	bp.lastProcessed = time.Now()
}

func (bp *BatchProcessor) ProcessRemaining() {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	if len(bp.messages) > 0 {
		bp.log.WithFields(logrus.Fields{
			"partition": bp.partitionID,
			"count":     len(bp.messages),
		}).Info("processing remaining messages before shutdown")
		bp.processBatchLocked()
	}
}

func (bp *BatchProcessor) groupByUser() map[string][]models.ProfitCreditMessage {
	userCredits := make(map[string][]models.ProfitCreditMessage)

	for _, credit := range bp.credits {
		userCredits[credit.UserID] = append(userCredits[credit.UserID], credit)
	}

	return userCredits
}
