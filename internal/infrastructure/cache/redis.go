package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meetscribe-team/meetscribe/pkg/config"
)

const detailTTL = 10 * time.Minute

// DetailCache stores rendered meeting detail views in Redis. Only
// completed meetings are cached; the pipeline invalidates on completion
// so the next read repopulates with the final artifacts.
type DetailCache struct {
	client *redis.Client
}

// NewDetailCache connects to Redis and verifies the connection
func NewDetailCache(cfg *config.Config) (*DetailCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &DetailCache{client: client}, nil
}

func detailKey(meetingID uuid.UUID) string {
	return "meeting:detail:" + meetingID.String()
}

// GetMeetingDetail loads a cached detail view into dest. A miss returns
// (false, nil).
func (c *DetailCache) GetMeetingDetail(ctx context.Context, meetingID uuid.UUID, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, detailKey(meetingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached detail: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached detail: %w", err)
	}
	return true, nil
}

// SetMeetingDetail caches a detail view
func (c *DetailCache) SetMeetingDetail(ctx context.Context, meetingID uuid.UUID, detail any) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode detail: %w", err)
	}
	if err := c.client.Set(ctx, detailKey(meetingID), raw, detailTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache detail: %w", err)
	}
	return nil
}

// InvalidateMeeting drops the cached detail for a meeting
func (c *DetailCache) InvalidateMeeting(ctx context.Context, meetingID uuid.UUID) error {
	if err := c.client.Del(ctx, detailKey(meetingID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate detail cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *DetailCache) Close() error {
	return c.client.Close()
}
