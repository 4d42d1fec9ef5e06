package notify

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
)

type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
}

// Accessor owns the notification list. The unread count is always derived by
// filtering, never stored.
type Accessor struct {
	api        API
	userID     string
	fastFoodID string

	mu      sync.RWMutex
	list    []domain.Notification
	lastErr string
}

func New(api API, userID, fastFoodID string) *Accessor {
	return &Accessor{api: api, userID: userID, fastFoodID: fastFoodID}
}

func (a *Accessor) Fetch(ctx context.Context) error {
	q := url.Values{}
	q.Set("userId", a.userID)
	if a.fastFoodID != "" {
		q.Set("fastFoodId", a.fastFoodID)
	}

	var fetched []domain.Notification
	err := a.api.GetJSON(ctx, "/notification/user?"+q.Encode(), &fetched)
	if err != nil && !errors.Is(err, rest.ErrNotFound) {
		a.mu.Lock()
		a.lastErr = err.Error()
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	a.list = fetched
	a.lastErr = ""
	a.mu.Unlock()
	return nil
}

func (a *Accessor) Snapshot() []domain.Notification {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Notification, len(a.list))
	copy(out, a.list)
	return out
}

func (a *Accessor) Unread() []domain.Notification {
	var out []domain.Notification
	for _, n := range a.Snapshot() {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

func (a *Accessor) UnreadCount() int { return len(a.Unread()) }

func (a *Accessor) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// MarkRead flips the read flag optimistically, for the whole group when
// groupID is set, and reverts the flips if the PUT fails. Calling it again on
// an already-read notification is a no-op that still succeeds.
func (a *Accessor) MarkRead(ctx context.Context, id, groupID string) error {
	a.mu.Lock()
	flipped := make(map[string]bool, 1)
	for i, n := range a.list {
		if n.ID == id || (groupID != "" && n.GroupID == groupID) {
			if !n.IsRead {
				flipped[n.ID] = true
				a.list[i].IsRead = true
			}
		}
	}
	a.mu.Unlock()

	path := "/notification/read/" + id
	if groupID != "" {
		path += "?groupId=" + url.QueryEscape(groupID)
	}
	if err := a.api.PutJSON(ctx, path, nil, nil); err != nil {
		a.mu.Lock()
		for i, n := range a.list {
			if flipped[n.ID] {
				a.list[i].IsRead = false
			}
		}
		a.mu.Unlock()
		return err
	}
	return nil
}
