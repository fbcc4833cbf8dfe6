package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/pkg/errors"
)

// decrementScript spends one credit only when the balance is positive.
// Returns the new balance, or -1 when nothing was spent.
var decrementScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current <= 0 then
  return -1
end
return redis.call("DECR", KEYS[1])
`)

// AllowanceStore keeps per-identity generation credits in Redis.
type AllowanceStore struct {
	client          *redis.Client
	logger          *zap.Logger
	startingCredits int64
}

func NewAllowanceStore(cache *CacheService, startingCredits int64, logger *zap.Logger) *AllowanceStore {
	if startingCredits <= 0 {
		startingCredits = constants.AllowanceConfig.StartingCredits
	}
	return &AllowanceStore{
		client:          cache.GetRedisClient(),
		logger:          logger,
		startingCredits: startingCredits,
	}
}

func allowanceKey(identity string) string {
	return constants.CacheKeys.AllowancePrefix + identity
}

// GetBalance returns the remaining credits; an unknown identity has zero.
func (s *AllowanceStore) GetBalance(ctx context.Context, identity string) (int64, error) {
	key := allowanceKey(identity)
	balance, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("Allowance read failed", zap.String("identity", identity), zap.Error(err))
		return 0, errors.NewCacheError("balance read failed", "get", key, err)
	}
	return balance, nil
}

// Decrement spends one credit atomically and returns the new balance.
func (s *AllowanceStore) Decrement(ctx context.Context, identity string) (int64, error) {
	key := allowanceKey(identity)
	balance, err := decrementScript.Run(ctx, s.client, []string{key}).Int64()
	if err != nil {
		s.logger.Error("Allowance decrement failed", zap.String("identity", identity), zap.Error(err))
		return 0, errors.NewCacheError("balance decrement failed", "decr", key, err)
	}
	if balance < 0 {
		return 0, errors.NewInsufficientAllowance(identity, 0)
	}
	return balance, nil
}

// Increment adds amount credits and returns the new balance.
func (s *AllowanceStore) Increment(ctx context.Context, identity string, amount int64) (int64, error) {
	if amount <= 0 || amount > constants.AllowanceConfig.MaxTopUp {
		return 0, errors.NewInvalidInput("top-up amount out of range", "amount", amount)
	}

	key := allowanceKey(identity)
	balance, err := s.client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		s.logger.Error("Allowance increment failed", zap.String("identity", identity), zap.Error(err))
		return 0, errors.NewCacheError("balance increment failed", "incrby", key, err)
	}

	s.logger.Info("Allowance topped up",
		zap.String("identity", identity),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
	)
	return balance, nil
}

// Grant seeds the starting credits for a new identity. It reports whether the
// identity was new; existing balances are never reset.
func (s *AllowanceStore) Grant(ctx context.Context, identity string) (bool, error) {
	key := allowanceKey(identity)
	created, err := s.client.SetNX(ctx, key, s.startingCredits, 0).Result()
	if err != nil {
		s.logger.Error("Allowance grant failed", zap.String("identity", identity), zap.Error(err))
		return false, errors.NewCacheError("balance grant failed", "setnx", key, err)
	}
	if created {
		s.logger.Info("Starting credits granted",
			zap.String("identity", identity),
			zap.Int64("credits", s.startingCredits),
		)
	}
	return created, nil
}
