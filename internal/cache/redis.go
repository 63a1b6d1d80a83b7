package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"digital-banking/internal/models"
)

// ErrMiss is returned when the account is not cached.
var ErrMiss = errors.New("cache miss")

// AccountTTL bounds how long a rendered account may be served from cache.
const AccountTTL = 60 * time.Second

// RedisCache keeps rendered account details keyed by account id.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisCache{client: client, ttl: AccountTTL}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) GetAccount(ctx context.Context, id models.AccountID) (*models.AccountResponse, error) {
	data, err := r.client.Get(ctx, AccountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var account models.AccountResponse
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *RedisCache) SetAccount(ctx context.Context, account *models.AccountResponse) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, AccountKey(account.ID), data, r.ttl).Err()
}

// DeleteAccounts evicts the given accounts. Absent keys are ignored.
func (r *RedisCache) DeleteAccounts(ctx context.Context, ids ...models.AccountID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, AccountKey(id))
	}
	return r.client.Del(ctx, keys...).Err()
}

func AccountKey(accountID models.AccountID) string {
	return "account:detail:" + string(accountID)
}
