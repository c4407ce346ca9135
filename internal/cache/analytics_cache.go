package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coursefeedback/internal/model"
)

// AnalyticsCache holds the latest computed analytics per course
type AnalyticsCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, courseID string) (*model.CourseAnalytics, error)
	Set(ctx context.Context, a *model.CourseAnalytics) error
	Invalidate(ctx context.Context, courseID string) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache creates a new analytics cache. A non-positive ttl
// falls back to ten minutes.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &analyticsCache{client: client, ttl: ttl}
}

func analyticsKey(courseID string) string {
	return fmt.Sprintf("course:%s:analytics", courseID)
}

func (c *analyticsCache) Get(ctx context.Context, courseID string) (*model.CourseAnalytics, error) {
	data, err := c.client.Get(ctx, analyticsKey(courseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var a model.CourseAnalytics
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *analyticsCache) Set(ctx context.Context, a *model.CourseAnalytics) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, analyticsKey(a.CourseID), data, c.ttl).Err()
}

func (c *analyticsCache) Invalidate(ctx context.Context, courseID string) error {
	return c.client.Del(ctx, analyticsKey(courseID)).Err()
}
