package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Carts are browsing state, not saved plans; idle ones expire.
const cartTTL = 72 * time.Hour

// Redis-backed implementation of the CartRepository port.
//
// One set per user holds the attraction ids the user collected while
// browsing; sets make duplicate adds a natural no-op. Carts expire
// after an idle period like the sessions they replace.
type RedisCartRepository struct {
	Client *redis.Client
}

func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{Client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *RedisCartRepository) Add(ctx context.Context, userID string, attractionID int64) error {
	if r.Client == nil {
		return errors.New("cart repository: client is nil")
	}
	if userID == "" {
		return errors.New("cart add: user id must not be empty")
	}

	key := cartKey(userID)
	if err := r.Client.SAdd(ctx, key, attractionID).Err(); err != nil {
		return fmt.Errorf("cart add: user %q attraction %d: %w", userID, attractionID, err)
	}
	if err := r.Client.Expire(ctx, key, cartTTL).Err(); err != nil {
		return fmt.Errorf("cart add: user %q: refresh ttl: %w", userID, err)
	}
	return nil
}

func (r *RedisCartRepository) Remove(ctx context.Context, userID string, attractionID int64) error {
	if r.Client == nil {
		return errors.New("cart repository: client is nil")
	}
	if userID == "" {
		return errors.New("cart remove: user id must not be empty")
	}

	if err := r.Client.SRem(ctx, cartKey(userID), attractionID).Err(); err != nil {
		return fmt.Errorf("cart remove: user %q attraction %d: %w", userID, attractionID, err)
	}
	return nil
}

func (r *RedisCartRepository) List(ctx context.Context, userID string) ([]int64, error) {
	if r.Client == nil {
		return nil, errors.New("cart repository: client is nil")
	}
	if userID == "" {
		return nil, errors.New("cart list: user id must not be empty")
	}

	members, err := r.Client.SMembers(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cart list: user %q: %w", userID, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cart list: user %q: bad member %q: %w", userID, m, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *RedisCartRepository) Clear(ctx context.Context, userID string) error {
	if r.Client == nil {
		return errors.New("cart repository: client is nil")
	}
	if userID == "" {
		return errors.New("cart clear: user id must not be empty")
	}

	if err := r.Client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("cart clear: user %q: %w", userID, err)
	}
	return nil
}
