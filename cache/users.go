package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const UsersFullNameRedisKey = "users_full_name"
const UsersUserNameRedisKey = "users_user_name"

// UserDisplay carries the denormalized author fields joined onto feed posts.
type UserDisplay struct {
	FullName string
	UserName string
}

// UsersCache keeps user display data in Redis so feed decoration does not hit
// the database for every author on every request.
type UsersCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewUsersCache(redisConnection *redis.Client, expiration time.Duration) UsersCache {
	return UsersCache{
		redisClient: redisConnection,
		expiration:  expiration,
	}
}

func (c *UsersCache) SetUserDisplay(id string, display UserDisplay) {
	c.hSetWithExpiration(UsersFullNameRedisKey, id, display.FullName)
	c.hSetWithExpiration(UsersUserNameRedisKey, id, display.UserName)
}

func (c *UsersCache) GetUserDisplay(id string) (UserDisplay, bool) {
	ctx := context.Background()

	fullName, err := c.redisClient.HGet(ctx, UsersFullNameRedisKey, id).Result()
	if err != nil {
		return UserDisplay{}, false
	}
	userName, err := c.redisClient.HGet(ctx, UsersUserNameRedisKey, id).Result()
	if err != nil {
		return UserDisplay{}, false
	}
	return UserDisplay{
		FullName: fullName,
		UserName: userName,
	}, true
}

func (c *UsersCache) DeleteUser(id string) {
	ctx := context.Background()
	c.redisClient.HDel(ctx, UsersFullNameRedisKey, id)
	c.redisClient.HDel(ctx, UsersUserNameRedisKey, id)
}

func (c *UsersCache) hSetWithExpiration(redisKey, key, value string) {
	ctx := context.Background()
	c.redisClient.HSet(ctx, redisKey, key, value)
	c.redisClient.HExpire(ctx, redisKey, c.expiration, key)
}
