package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenAPI struct {
	err   error
	calls int
	path  string
	body  any
}

func (f *fakeTokenAPI) PutJSON(_ context.Context, path string, in, _ any) error {
	f.calls++
	f.path = path
	f.body = in
	return f.err
}

type memTokenCache struct {
	slots map[string]string
}

func newMemTokenCache() *memTokenCache { return &memTokenCache{slots: map[string]string{}} }

func (c *memTokenCache) PutUnsentToken(_ context.Context, uid, token string) error {
	c.slots[uid] = token
	return nil
}

func (c *memTokenCache) TakeUnsentToken(_ context.Context, uid string) (string, error) {
	token := c.slots[uid]
	delete(c.slots, uid)
	return token, nil
}

func TestRegisterPushToken(t *testing.T) {
	api := &fakeTokenAPI{}
	cache := newMemTokenCache()

	require.NoError(t, RegisterPushToken(context.Background(), api, cache, "u1", "tok-1"))
	assert.Equal(t, "/user/pushtoken/u1", api.path)
	assert.Equal(t, map[string]string{"token": "tok-1"}, api.body)
	assert.Empty(t, cache.slots, "a delivered token must not be parked")
}

func TestRegisterPushTokenParksOnFailure(t *testing.T) {
	api := &fakeTokenAPI{err: errors.New("offline")}
	cache := newMemTokenCache()

	require.Error(t, RegisterPushToken(context.Background(), api, cache, "u1", "tok-1"))
	assert.Equal(t, "tok-1", cache.slots["u1"])
}

func TestResendPushTokenDrainsSlot(t *testing.T) {
	ctx := context.Background()
	api := &fakeTokenAPI{}
	cache := newMemTokenCache()
	cache.slots["u1"] = "tok-1"

	require.NoError(t, ResendPushToken(ctx, api, cache, "u1"))
	assert.Equal(t, 1, api.calls)
	assert.Empty(t, cache.slots)

	// Empty slot: nothing to send.
	require.NoError(t, ResendPushToken(ctx, api, cache, "u1"))
	assert.Equal(t, 1, api.calls)
}

func TestResendPushTokenReparksOnFailure(t *testing.T) {
	api := &fakeTokenAPI{err: errors.New("still offline")}
	cache := newMemTokenCache()
	cache.slots["u1"] = "tok-1"

	require.Error(t, ResendPushToken(context.Background(), api, cache, "u1"))
	assert.Equal(t, "tok-1", cache.slots["u1"], "a still-failing token must stay parked")
}
