package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	expiration = 5 * time.Minute
)

var (
	ErrSnapshotNotFound = errors.New("wallet snapshot not found in cache")
)

type WalletRepository struct {
	client *redis.Client
	prefix string
}

func NewWalletRepository(client *redis.Client) *WalletRepository {
	return &WalletRepository{
		client: client,
		prefix: "wallet:",
	}
}

// SetSnapshot caches the full balance view, not just the balance figure:
// a cache hit must report accrued profits and the last deposit method
// exactly as a database read would.
func (r *WalletRepository) SetSnapshot(ctx context.Context, userID string, snapshot *models.WalletBalanceResponse) error {
	key := r.getSnapshotKey(userID)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key, payload, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set wallet snapshot in redis: %w", err)
	}

	return nil
}

func (r *WalletRepository) GetSnapshot(ctx context.Context, userID string) (*models.WalletBalanceResponse, error) {
	key := r.getSnapshotKey(userID)

	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get wallet snapshot from redis: %w", err)
	}

	var snapshot models.WalletBalanceResponse
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse wallet snapshot from redis: %w", err)
	}

	return &snapshot, nil
}

func (r *WalletRepository) DeleteSnapshot(ctx context.Context, userID string) error {
	key := r.getSnapshotKey(userID)

	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete wallet snapshot from redis: %w", err)
	}

	return nil
}

func (r *WalletRepository) getSnapshotKey(userID string) string {
	return r.prefix + userID + ":snapshot"
}
