package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"reelgap/models"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	leaderboardTTL       = 5 * time.Minute
)

// LeaderboardCache caches the ranked listing in redis. The entry is
// invalidated whenever the points engine mutates a balance, so the TTL only
// bounds staleness if the invalidation is missed.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a leaderboard cache; client may be nil, which
// disables caching entirely.
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

func (lc *LeaderboardCache) key(limit int) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
}

// Get returns the cached listing for a limit, or nil on miss
func (lc *LeaderboardCache) Get(ctx context.Context, limit int) []*models.LeaderboardEntry {
	if lc.client == nil {
		return nil
	}

	data, err := lc.client.Get(ctx, lc.key(limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Debug("Leaderboard cache read failed")
		}
		return nil
	}

	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.WithError(err).Warn("Corrupt leaderboard cache entry")
		return nil
	}
	return entries
}

// Set stores the listing for a limit
func (lc *LeaderboardCache) Set(ctx context.Context, limit int, entries []*models.LeaderboardEntry) {
	if lc.client == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := lc.client.Set(ctx, lc.key(limit), data, leaderboardTTL).Err(); err != nil {
		log.WithError(err).Debug("Leaderboard cache write failed")
	}
}

// Invalidate drops every cached leaderboard page
func (lc *LeaderboardCache) Invalidate(ctx context.Context) {
	if lc.client == nil {
		return
	}

	iter := lc.client.Scan(ctx, 0, leaderboardKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := lc.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.WithError(err).Debug("Leaderboard cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.WithError(err).Debug("Leaderboard cache scan failed")
	}
}
