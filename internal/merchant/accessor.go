package merchant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
)

type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
}

// Accessor owns a merchant's orders, menus and transactions. Fetch loads all
// three concurrently and fails the whole batch if any one fails, keeping the
// previous data in that case.
type Accessor struct {
	api        API
	userID     string
	fastFoodID string

	mu      sync.RWMutex
	orders  []domain.Order
	menus   []domain.Menu
	txs     []domain.Transaction
	lastErr string
}

func New(api API, userID, fastFoodID string) *Accessor {
	return &Accessor{api: api, userID: userID, fastFoodID: fastFoodID}
}

func (a *Accessor) Fetch(ctx context.Context) error {
	var (
		orders []domain.Order
		menus  []domain.Menu
		txs    []domain.Transaction
		errs   [3]error
		wg     sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		errs[0] = a.api.GetJSON(ctx, "/order/all/"+a.fastFoodID, &orders)
	}()
	go func() {
		defer wg.Done()
		errs[1] = a.api.GetJSON(ctx, "/menu/"+a.fastFoodID, &menus)
	}()
	go func() {
		defer wg.Done()
		errs[2] = a.api.GetJSON(ctx, "/transaction/"+a.userID, &txs)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, rest.ErrNotFound) {
			a.mu.Lock()
			a.lastErr = err.Error()
			a.mu.Unlock()
			return fmt.Errorf("merchant fetch: %w", err)
		}
	}

	a.mu.Lock()
	a.orders = orders
	a.menus = menus
	a.txs = txs
	a.lastErr = ""
	a.mu.Unlock()
	return nil
}

func (a *Accessor) Orders() []domain.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Order, len(a.orders))
	copy(out, a.orders)
	return out
}

func (a *Accessor) Menus() []domain.Menu {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Menu, len(a.menus))
	copy(out, a.menus)
	return out
}

func (a *Accessor) Transactions() []domain.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Transaction, len(a.txs))
	copy(out, a.txs)
	return out
}

func (a *Accessor) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// UpdateOrderStatus patches the status optimistically after validating the
// transition against the lifecycle map, reverting the patch if the PUT fails.
func (a *Accessor) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	to := domain.NormalizeStatus(status)
	if to == domain.StatusUnknown {
		return fmt.Errorf("unknown status %q", status)
	}

	a.mu.Lock()
	idx := -1
	for i, o := range a.orders {
		if o.ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.mu.Unlock()
		return rest.ErrNotFound
	}
	from := a.orders[idx].NormalizedStatus()
	if !domain.CanTransition(from, to) {
		a.mu.Unlock()
		return fmt.Errorf("cannot transition order %s from %s to %s", orderID, from, to)
	}
	prev := a.orders[idx].Status
	a.orders[idx].Status = string(to)
	a.mu.Unlock()

	if err := a.api.PutJSON(ctx, "/order/status/"+orderID, map[string]string{"status": string(to)}, nil); err != nil {
		a.mu.Lock()
		for i := range a.orders {
			if a.orders[i].ID == orderID {
				a.orders[i].Status = prev
			}
		}
		a.mu.Unlock()
		return err
	}
	return nil
}

// AddMenu creates a menu item and refetches the menu list.
func (a *Accessor) AddMenu(ctx context.Context, m domain.Menu) error {
	m.FastFoodID = a.fastFoodID
	if err := a.api.PostJSON(ctx, "/menu/add", m, nil); err != nil {
		return fmt.Errorf("add menu: %w", err)
	}

	var menus []domain.Menu
	err := a.api.GetJSON(ctx, "/menu/"+a.fastFoodID, &menus)
	if err != nil && !errors.Is(err, rest.ErrNotFound) {
		return err
	}
	a.mu.Lock()
	a.menus = menus
	a.mu.Unlock()
	return nil
}

// Restaurants fetches the storefront list and assigns the presentational
// design index as position % 4.
func (a *Accessor) Restaurants(ctx context.Context) ([]domain.FastFood, error) {
	var out []domain.FastFood
	err := a.api.GetJSON(ctx, "/fastfood/all", &out)
	if err != nil && !errors.Is(err, rest.ErrNotFound) {
		return nil, err
	}
	for i := range out {
		out[i].DesignIndex = i % 4
	}
	return out, nil
}
