package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
)

type API interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// Accessor owns the wallet ledger. Balance and spend are derived from the
// ledger on every read.
type Accessor struct {
	api    API
	userID string

	mu      sync.RWMutex
	list    []domain.Transaction
	lastErr string
}

func New(api API, userID string) *Accessor {
	return &Accessor{api: api, userID: userID}
}

func (a *Accessor) Fetch(ctx context.Context) error {
	var fetched []domain.Transaction
	err := a.api.GetJSON(ctx, "/transaction/"+a.userID, &fetched)
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

func (a *Accessor) Transactions() []domain.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Transaction, len(a.list))
	copy(out, a.list)
	return out
}

func (a *Accessor) Balance() float64 { return domain.Balance(a.Transactions()) }

func (a *Accessor) TotalSpend() float64 { return domain.TotalSpend(a.Transactions()) }

func (a *Accessor) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}
