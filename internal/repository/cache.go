package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const importKeyPrefix = "hale:import:"

// ImportCache remembers which logs, by content hash, were already imported
// and under which history id.
type ImportCache struct {
	log   *zap.SugaredLogger
	redis *redis.Client
}

func NewImportCache(log *zap.SugaredLogger, redis *redis.Client) *ImportCache {
	return &ImportCache{
		log:   log,
		redis: redis,
	}
}

func (c *ImportCache) ImportedHistoryID(ctx context.Context, hash string) (string, bool, error) {
	id, err := c.redis.Get(ctx, importKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		c.log.Errorw("failed to read import cache", "hash", hash, "error", err)
		return "", false, err
	}
	return id, true, nil
}

// MarkImported records hash as imported under historyID. It reports false
// when another import claimed the hash first.
func (c *ImportCache) MarkImported(ctx context.Context, hash string, historyID string) (bool, error) {
	ok, err := c.redis.SetNX(ctx, importKeyPrefix+hash, historyID, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark %s as imported: %w", hash, err)
	}
	return ok, nil
}

func (c *ImportCache) Forget(ctx context.Context, hash string) error {
	return c.redis.Del(ctx, importKeyPrefix+hash).Err()
}
