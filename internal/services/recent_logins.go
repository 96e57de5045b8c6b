package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RecentLoginService remembers the last few login identifiers per device
// so the auth form can offer them back. Pure UX convenience, no security
// role; entries are plain identifiers, capped and deduplicated.
type RecentLoginService struct {
	Redis *redis.Client
	Limit int
}

func NewRecentLoginService(redisClient *redis.Client, limit int) *RecentLoginService {
	return &RecentLoginService{Redis: redisClient, Limit: limit}
}

func recentKey(deviceKey string) string {
	return fmt.Sprintf("recent_logins:%s", deviceKey)
}

// Remember puts the identifier at the front of the device's list,
// dropping duplicates and trimming to the cap.
func (s *RecentLoginService) Remember(ctx context.Context, deviceKey, identifier string) error {
	key := recentKey(deviceKey)

	if err := s.Redis.LRem(ctx, key, 0, identifier).Err(); err != nil {
		return err
	}
	if err := s.Redis.LPush(ctx, key, identifier).Err(); err != nil {
		return err
	}
	return s.Redis.LTrim(ctx, key, 0, int64(s.Limit-1)).Err()
}

// List returns the device's recent identifiers, most recent first.
func (s *RecentLoginService) List(ctx context.Context, deviceKey string) ([]string, error) {
	values, err := s.Redis.LRange(ctx, recentKey(deviceKey), 0, int64(s.Limit-1)).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Forget removes one identifier from the device's list.
func (s *RecentLoginService) Forget(ctx context.Context, deviceKey, identifier string) error {
	return s.Redis.LRem(ctx, recentKey(deviceKey), 0, identifier).Err()
}
