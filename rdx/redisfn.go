package rdx

import (
	"context"
	"time"

	"voltshop/config"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func Init(cfg config.Config) {
	Conn = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
}

// RdxSetNX acquires a best-effort lock key. Returns false when the key
// is already held.
func RdxSetNX(key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(context.Background(), key, value, ttl).Result()
}

func RdxDel(key string) error {
	return Conn.Del(context.Background(), key).Err()
}

// Publish pushes a message onto a pub/sub channel.
func Publish(ctx context.Context, channel string, payload []byte) error {
	return Conn.Publish(ctx, channel, payload).Err()
}
