// internal/service/order/infrastructure/adapter/store_redis_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/infrastructure"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

const storeCacheKeyPrefix = "store:billing:"

// StoreRedisAdapter 实现了 port.StoreService。
// 店铺账单配置读多写少，这里在 MySQL 之上加一层 Redis 读穿缓存；
// 缓存故障只记日志并回源，不影响正确性。
type StoreRedisAdapter struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewStoreRedisAdapter(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *StoreRedisAdapter {
	return &StoreRedisAdapter{db: db, rdb: rdb, ttl: ttl}
}

func (a *StoreRedisAdapter) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	key := storeCacheKeyPrefix + id

	if a.rdb != nil {
		cached, err := a.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var store domain.Store
			if err := json.Unmarshal(cached, &store); err == nil {
				return &store, nil
			}
			// 缓存内容损坏，当作未命中回源
		case !errors.Is(err, redis.Nil):
			logger.Ctx(ctx).Warn().Err(err).Str("store_id", id).Msg("store cache read failed, falling back to db")
		}
	}

	var model infrastructure.StoreModel
	err := a.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("store %s", id)
		}
		return nil, err
	}
	store := infrastructure.ToDomainStore(&model)

	if a.rdb != nil {
		if payload, err := json.Marshal(store); err == nil {
			if err := a.rdb.Set(ctx, key, payload, a.ttl).Err(); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("store_id", id).Msg("store cache write failed")
			}
		}
	}
	return store, nil
}

var _ port.StoreService = (*StoreRedisAdapter)(nil)
