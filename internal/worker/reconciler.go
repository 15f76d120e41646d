package worker

import (
	"context"
	"fmt"
	"time"

	"ledger-service/internal/config"
	"ledger-service/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reconciler periodically surfaces withdrawals stuck in pending longer than
// the configured age so an operator can investigate the unbalanced state.
type Reconciler struct {
	cfg          *config.ReconcilerConfig
	transactions services.TransactionRepository
	log          *logrus.Logger
	cron         *cron.Cron
}

func NewReconciler(cfg *config.ReconcilerConfig, transactions services.TransactionRepository, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		cfg:          cfg,
		transactions: transactions,
		log:          log,
		cron:         cron.New(),
	}
}

func (r *Reconciler) Start() error {
	_, err := r.cron.AddFunc(r.cfg.Schedule, r.run)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciler: %w", err)
	}

	r.cron.Start()
	r.log.WithField("schedule", r.cfg.Schedule).Info("reconciler started")
	return nil
}

func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale, err := r.transactions.ListStalePending(ctx, r.cfg.MaxPendingAge)
	if err != nil {
		r.log.WithError(err).Error("reconciliation pass failed")
		return
	}

	if len(stale) == 0 {
		return
	}

	r.log.WithField("count", len(stale)).Warn("withdrawals pending past the reconciliation threshold")
	for _, txn := range stale {
		r.log.WithFields(logrus.Fields{
			"transaction_id": txn.ID,
			"user_id":        txn.UserID,
			"amount":         txn.Amount.String(),
			"created_at":     txn.CreatedAt,
		}).Warn("withdrawal requires reconciliation")
	}
}
