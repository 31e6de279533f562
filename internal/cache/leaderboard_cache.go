package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey = "leaderboard:global"
	namesKey       = "leaderboard:names"
	retention      = 30 * 24 * time.Hour
)

// LeaderboardCache handles Redis ZSET operations for the cross-room
// leaderboard
type LeaderboardCache interface {
	RecordScore(ctx context.Context, playerID, name string, score int) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, playerID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

// RecordScore stores a player's final score, keeping their best run.
func (c *leaderboardCache) RecordScore(ctx context.Context, playerID, name string, score int) error {
	if err := c.client.ZAddGT(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err(); err != nil {
		return err
	}
	if err := c.client.HSet(ctx, namesKey, playerID, name).Err(); err != nil {
		return err
	}
	c.client.Expire(ctx, leaderboardKey, retention)
	c.client.Expire(ctx, namesKey, retention)
	return nil
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		id, _ := z.Member.(string)
		name, err := c.client.HGet(ctx, namesKey, id).Result()
		if err != nil && err != redis.Nil {
			return nil, err
		}
		entries[i] = LeaderboardEntry{
			PlayerID: id,
			Name:     name,
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
