package sink

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Channel   string
	TTL       time.Duration
}

type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// Redis keeps the latest snapshot under <prefix><symbol> and announces each
// one on a pub/sub channel.
type Redis struct {
	client    redisClient
	keyPrefix string
	channel   string
	ttl       time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedis(client, cfg)
}

func newRedis(client redisClient, cfg RedisConfig) *Redis {
	return &Redis{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		channel:   cfg.Channel,
		ttl:       cfg.TTL,
	}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Write(ctx context.Context, symbol string, payload []byte) error {
	key := r.keyPrefix + symbol
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	if r.channel == "" {
		return nil
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish %s", r.channel)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
