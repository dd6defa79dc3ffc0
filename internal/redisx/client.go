package redisx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// GetJSON baca cache; (false, nil) kalau miss atau rusak.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, out any) (bool, error) {
	s, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		// cache rusak -> buang, anggap miss
		_ = rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Printf("redis set %s: %v", key, err)
	}
}

// Invalidate hapus key cache setelah mutasi. Gagal hapus cuma di-log:
// TTL pendek akan membereskan sisanya.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("redis del %v: %v", keys, err)
	}
}
