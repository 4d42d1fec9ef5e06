package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Cache is the key->JSON local state the app persists between sessions: the
// profile fallback, the unsent push token slot and bridge event dedup marks.
type Cache struct {
	R *redis.Client
}

func NewCache(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	s, err := c.R.Get(ctx, fmt.Sprintf(KeyProfile, uid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &u, nil
}

func (c *Cache) SetProfile(ctx context.Context, u *domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, fmt.Sprintf(KeyProfile, u.UID), b, TTLProfile).Err()
}

func (c *Cache) DeleteProfile(ctx context.Context, uid string) error {
	return c.R.Del(ctx, fmt.Sprintf(KeyProfile, uid)).Err()
}

func (c *Cache) PutUnsentToken(ctx context.Context, uid, token string) error {
	return c.R.Set(ctx, fmt.Sprintf(KeyUnsentPushToken, uid), token, 0).Err()
}

// TakeUnsentToken pops the retry slot; empty string means nothing pending.
func (c *Cache) TakeUnsentToken(ctx context.Context, uid string) (string, error) {
	s, err := c.R.GetDel(ctx, fmt.Sprintf(KeyUnsentPushToken, uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return s, err
}

// SeenEvent marks an event id and reports whether it was already marked.
// SetNX keeps the check-and-mark atomic across concurrent deliveries.
func (c *Cache) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	ok, err := c.R.SetNX(ctx, fmt.Sprintf(KeyBridgeDedup, eventID), "1", TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// ForgetEvent drops a dedup mark so a redelivery of the event is handled
// again. Used when handling failed after the mark was placed.
func (c *Cache) ForgetEvent(ctx context.Context, eventID string) error {
	return c.R.Del(ctx, fmt.Sprintf(KeyBridgeDedup, eventID)).Err()
}
