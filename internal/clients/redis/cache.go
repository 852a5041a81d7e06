package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// ScoreCache keeps computed compatibility verdicts for a short TTL. Keys
// carry the preferences version, so a preference edit stops hitting the old
// entries immediately and the TTL reclaims them.
type ScoreCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Close() error
}

type scoreCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewScoreCache connects to the configured redis instance and pings it so a
// bad address fails at startup, not on the first request.
func NewScoreCache(cfg config.RedisConfig, baseLog *logger.Logger) (ScoreCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &scoreCache{
		log: baseLog.With("service", "ScoreCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

// Get returns ok=false on a miss or any transport error; the caller
// recomputes either way.
func (c *scoreCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Score cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *scoreCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("Score cache write failed", "key", key, "error", err)
	}
}

func (c *scoreCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
