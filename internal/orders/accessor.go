package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
	"github.com/google/uuid"
)

// API is the slice of the REST client the accessor needs.
type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

var ErrNotInCart = errors.New("only pendingToBuy orders can be removed")

// Accessor owns the user's order list. Fetch replaces the list wholesale;
// failures keep the last-known-good list and set an error flag. Mutations are
// optimistic but reversible: the local change is applied first and reverted
// if the network call fails.
type Accessor struct {
	api    API
	userID string

	mu      sync.RWMutex
	list    []domain.Order
	lastErr string
}

func New(api API, userID string) *Accessor {
	return &Accessor{api: api, userID: userID}
}

// Fetch replaces the order list from the server. A 404 is an empty list, not
// an error. On any other failure the previous list stays untouched.
func (a *Accessor) Fetch(ctx context.Context) error {
	var fetched []domain.Order
	err := a.api.GetJSON(ctx, "/order/user/all/"+a.userID, &fetched)
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

func (a *Accessor) Snapshot() []domain.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Order, len(a.list))
	copy(out, a.list)
	return out
}

func (a *Accessor) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

func (a *Accessor) Buckets() domain.Buckets {
	return domain.Partition(a.Snapshot())
}

func (a *Accessor) CartTotal() float64 {
	return domain.CartTotal(a.Snapshot())
}

// AddToCart builds a cart order locally: client-side id, pendingToBuy status
// and the one-time total computation. No server round trip happens here.
func (a *Accessor) AddToCart(menu domain.Menu, quantity int, packagings []domain.Packaging, drink domain.Drink, delivery domain.Delivery) domain.Order {
	if quantity < 1 {
		quantity = 1
	}
	o := domain.Order{
		ID:         uuid.NewString(),
		UserID:     a.userID,
		FastFoodID: menu.FastFoodID,
		Menu:       menu,
		Quantity:   quantity,
		Packagings: packagings,
		Drink:      drink,
		Delivery:   delivery,
		TotalPrice: domain.ComputeTotal(menu.BasePrice(), quantity, packagings, drink, delivery),
		Status:     string(domain.StatusCart),
		IsPending:  true,
	}

	a.mu.Lock()
	a.list = append(a.list, o)
	a.mu.Unlock()
	return o
}

// Submit posts one order and refetches the full list on success.
func (a *Accessor) Submit(ctx context.Context, o domain.Order) error {
	o.UserID = a.userID
	if err := a.api.PostJSON(ctx, "/order/add", o, nil); err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	return a.Fetch(ctx)
}

// Remove deletes a cart order. The removal is applied locally first and
// reverted if the DELETE fails.
func (a *Accessor) Remove(ctx context.Context, orderID string) error {
	a.mu.Lock()
	idx := a.indexLocked(orderID)
	if idx < 0 {
		a.mu.Unlock()
		return rest.ErrNotFound
	}
	if a.list[idx].NormalizedStatus() != domain.StatusCart {
		a.mu.Unlock()
		return ErrNotInCart
	}
	removed := a.list[idx]
	a.mu.Unlock()

	m := mutation{
		apply: func() {
			if i := a.indexLocked(orderID); i >= 0 {
				a.list = append(a.list[:i], a.list[i+1:]...)
			}
		},
		revert: func() {
			// A refetch may have replaced the list while the DELETE was in
			// flight: skip if the order is already back, and clamp the
			// insertion point to the current bounds.
			if a.indexLocked(orderID) >= 0 {
				return
			}
			at := idx
			if at > len(a.list) {
				at = len(a.list)
			}
			a.list = append(a.list, domain.Order{})
			copy(a.list[at+1:], a.list[at:])
			a.list[at] = removed
		},
	}
	return a.run(ctx, m, func(ctx context.Context) error {
		return a.api.Delete(ctx, "/order/delete/"+orderID)
	})
}

// SetQuantity rewrites the quantity optimistically, reverting on failure.
// TotalPrice deliberately stays as computed at build time.
func (a *Accessor) SetQuantity(ctx context.Context, orderID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", quantity)
	}

	a.mu.Lock()
	idx := a.indexLocked(orderID)
	if idx < 0 {
		a.mu.Unlock()
		return rest.ErrNotFound
	}
	prev := a.list[idx].Quantity
	a.mu.Unlock()

	m := mutation{
		apply: func() {
			if i := a.indexLocked(orderID); i >= 0 {
				a.list[i].Quantity = quantity
			}
		},
		revert: func() {
			if i := a.indexLocked(orderID); i >= 0 {
				a.list[i].Quantity = prev
			}
		},
	}
	return a.run(ctx, m, func(ctx context.Context) error {
		return a.api.PutJSON(ctx, "/order/update/"+orderID, map[string]int{"quantity": quantity}, nil)
	})
}

// PurchaseBatch submits the whole cart in one call. The server decides
// atomicity; the client assumes all-or-nothing and refetches on success.
func (a *Accessor) PurchaseBatch(ctx context.Context) error {
	cart := a.Buckets().Cart
	if len(cart) == 0 {
		return nil
	}
	for i := range cart {
		cart[i].UserID = a.userID
	}
	if err := a.api.PutJSON(ctx, "/order/tabs/"+a.userID, cart, nil); err != nil {
		return fmt.Errorf("purchase batch: %w", err)
	}
	return a.Fetch(ctx)
}

// indexLocked assumes the caller holds a.mu.
func (a *Accessor) indexLocked(orderID string) int {
	for i, o := range a.list {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}
