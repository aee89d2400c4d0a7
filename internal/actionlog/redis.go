package actionlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKey holds the JSON-encoded entries, newest at the head.
const RedisKey = "admin:actionlog"

type RedisLog struct {
	rdb *redis.Client
}

func NewRedisLog(rdb *redis.Client) *RedisLog {
	return &RedisLog{rdb: rdb}
}

func (l *RedisLog) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode action log entry: %w", err)
	}

	pipe := l.rdb.TxPipeline()
	pipe.LPush(ctx, RedisKey, data)
	pipe.LTrim(ctx, RedisKey, 0, MaxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record action log entry: %w", err)
	}
	return nil
}

func (l *RedisLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(n - 1)
	if n <= 0 {
		stop = -1
	}
	items, err := l.rdb.LRange(ctx, RedisKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read action log: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			// skip entries written by an older format
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
