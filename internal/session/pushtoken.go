package session

import (
	"context"
	"log"
)

type TokenAPI interface {
	PutJSON(ctx context.Context, path string, in, out any) error
}

// TokenCache is the unsent-token retry slot. A token that could not be
// registered is parked there and resent on the next start.
type TokenCache interface {
	PutUnsentToken(ctx context.Context, uid, token string) error
	TakeUnsentToken(ctx context.Context, uid string) (string, error)
}

// RegisterPushToken sends the device push token upstream. On failure the
// token is parked in the retry slot so ResendPushToken can pick it up later.
func RegisterPushToken(ctx context.Context, api TokenAPI, cache TokenCache, uid, token string) error {
	err := api.PutJSON(ctx, "/user/pushtoken/"+uid, map[string]string{"token": token}, nil)
	if err == nil {
		return nil
	}
	if cache != nil {
		if cerr := cache.PutUnsentToken(ctx, uid, token); cerr != nil {
			log.Printf("session: park push token: %v", cerr)
		}
	}
	return err
}

// ResendPushToken drains the retry slot; a no-op when nothing is parked.
// A still-failing send parks the token again.
func ResendPushToken(ctx context.Context, api TokenAPI, cache TokenCache, uid string) error {
	token, err := cache.TakeUnsentToken(ctx, uid)
	if err != nil || token == "" {
		return err
	}
	return RegisterPushToken(ctx, api, cache, uid, token)
}
