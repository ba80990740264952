package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peace-adamu/inventory-management-system/internal/config"
)

const (
	defaultCacheTTL = time.Minute
	scanBatchSize   = 100
	pingTimeout     = 5 * time.Second
)

// Redis is the connection shared by the product and report caches.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials redis and checks it with PING. It returns nil, nil when
// caching is disabled; the cache constructors treat a nil *Redis as "no cache".
func Connect(ctx context.Context, cfg config.CacheConfig) (*Redis, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	ttl := time.Duration(cfg.ProductsTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Close is safe on a nil *Redis.
func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}

func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// get reports a missing key as ok == false rather than an error.
func (r *Redis) get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return payload, true, nil
}

func (r *Redis) set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// unlinkPrefix removes every key starting with prefix, one SCAN page at a time.
func (r *Redis) unlinkPrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s*: %w", prefix, err)
	}
	return flush()
}

// hashedKey keeps keys short when the scope holds spreadsheet ids or policy values.
func hashedKey(prefix, raw string) string {
	if raw == "" {
		return prefix + ":default"
	}
	hash := sha1.Sum([]byte(raw))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
