package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"coursefeedback/internal/model"
)

const rankingKey = "courses:performance"

// RankingCache keeps courses ordered by their last performance score
type RankingCache interface {
	UpdateScore(ctx context.Context, courseID string, score float64) error
	Remove(ctx context.Context, courseID string) error
	GetTop(ctx context.Context, limit int) ([]model.RankedCourse, error)
	// GetRank is 1-indexed; -1 means the course is not ranked
	GetRank(ctx context.Context, courseID string) (int64, error)
}

type rankingCache struct {
	client *redis.Client
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(client *redis.Client) RankingCache {
	return &rankingCache{client: client}
}

func (c *rankingCache) UpdateScore(ctx context.Context, courseID string, score float64) error {
	return c.client.ZAdd(ctx, rankingKey, redis.Z{Score: score, Member: courseID}).Err()
}

func (c *rankingCache) Remove(ctx context.Context, courseID string) error {
	return c.client.ZRem(ctx, rankingKey, courseID).Err()
}

func (c *rankingCache) GetTop(ctx context.Context, limit int) ([]model.RankedCourse, error) {
	if limit <= 0 {
		return []model.RankedCourse{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, rankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.RankedCourse, len(results))
	for i, z := range results {
		id, _ := z.Member.(string)
		entries[i] = model.RankedCourse{CourseID: id, PerformanceScore: z.Score, Rank: i + 1}
	}
	return entries, nil
}

func (c *rankingCache) GetRank(ctx context.Context, courseID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, rankingKey, courseID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}
