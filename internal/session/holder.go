package session

import (
	"context"
	"log"
	"sync"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
)

// Identity is what the auth provider yields on every state change. A nil
// identity on the stream means sign-out.
type Identity struct {
	UID   string
	Email string
}

type API interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// ProfileCache is the persisted fallback used when the profile fetch fails
// on sign-in.
type ProfileCache interface {
	GetProfile(ctx context.Context, uid string) (*domain.User, error)
	SetProfile(ctx context.Context, u *domain.User) error
	DeleteProfile(ctx context.Context, uid string) error
}

// Holder is the process-wide identity state. Every accessor reads the current
// user from here instead of having it threaded through explicitly. Lifecycle:
// Run consumes the auth provider's stream until the context ends; sign-out
// clears both the in-memory and the cached copy.
type Holder struct {
	api   API
	cache ProfileCache

	mu   sync.RWMutex
	user *domain.User
	subs []func(*domain.User)
}

func New(api API, cache ProfileCache) *Holder {
	return &Holder{api: api, cache: cache}
}

func (h *Holder) Current() (*domain.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil, false
	}
	u := *h.user
	return &u, true
}

// Subscribe registers a change callback. It fires on every sign-in and with
// nil on sign-out.
func (h *Holder) Subscribe(fn func(*domain.User)) {
	h.mu.Lock()
	h.subs = append(h.subs, fn)
	h.mu.Unlock()
}

// Run consumes auth state changes until the stream closes or ctx ends.
func (h *Holder) Run(ctx context.Context, events <-chan *Identity) {
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-events:
			if !ok {
				return
			}
			h.handle(ctx, id)
		}
	}
}

func (h *Holder) handle(ctx context.Context, id *Identity) {
	if id == nil {
		h.mu.Lock()
		prev := h.user
		h.user = nil
		h.mu.Unlock()
		if prev != nil && h.cache != nil {
			if err := h.cache.DeleteProfile(ctx, prev.UID); err != nil {
				log.Printf("session: drop cached profile: %v", err)
			}
		}
		h.notify(nil)
		return
	}

	u := h.loadProfile(ctx, id)
	h.mu.Lock()
	h.user = u
	h.mu.Unlock()
	h.notify(u)
}

// loadProfile fetches the enriched profile, falling back to the cached copy,
// and to a minimal record built from the identity as the last resort.
func (h *Holder) loadProfile(ctx context.Context, id *Identity) *domain.User {
	var u domain.User
	err := h.api.GetJSON(ctx, "/user/"+id.UID, &u)
	if err == nil {
		if h.cache != nil {
			if cerr := h.cache.SetProfile(ctx, &u); cerr != nil {
				log.Printf("session: cache profile: %v", cerr)
			}
		}
		return &u
	}
	log.Printf("session: profile fetch for %s: %v", id.UID, err)

	if h.cache != nil {
		if cached, cerr := h.cache.GetProfile(ctx, id.UID); cerr == nil && cached != nil {
			return cached
		}
	}
	return &domain.User{UID: id.UID, Email: id.Email, Statistique: domain.DefaultStatistique}
}

func (h *Holder) notify(u *domain.User) {
	h.mu.RLock()
	subs := make([]func(*domain.User), len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()
	for _, fn := range subs {
		fn(u)
	}
}
