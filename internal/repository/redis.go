package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisAuditSink appends audit entries to a Redis stream, trimmed to
// roughly maxLen entries.
type RedisAuditSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisAuditSink constructs a RedisAuditSink. maxLen <= 0 disables trimming.
func NewRedisAuditSink(client *redis.Client, stream string, maxLen int64) *RedisAuditSink {
	return &RedisAuditSink{client: client, stream: stream, maxLen: maxLen}
}

// Record appends one entry with XADD.
func (s *RedisAuditSink) Record(ctx context.Context, e model.AuditEntry) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":         e.ID,
			"action":     string(e.Action),
			"activity":   e.Activity,
			"email":      e.Email,
			"created_at": e.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisAuditSink) Driver() string { return "redis" }
