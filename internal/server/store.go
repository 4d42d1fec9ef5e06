package server

import (
	"context"
	"errors"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means the operation is not valid for the record's current
	// state, e.g. deleting an order that already left the cart.
	ErrConflict = errors.New("conflict")
)

// Store is the persistence boundary of the API service. MemStore backs tests
// and local development, PGStore backs production.
type Store interface {
	UserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	FastFoodOrders(ctx context.Context, fastFoodID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	AddOrder(ctx context.Context, o domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	UpdateOrderQuantity(ctx context.Context, id string, quantity int) error
	UpdateOrderStatus(ctx context.Context, id, status string) error
	// PurchaseCart upserts the submitted orders, flips every pendingToBuy
	// order of the user to pending and writes one debit ledger entry for the
	// batch total. All-or-nothing from the client's point of view.
	PurchaseCart(ctx context.Context, userID string, orders []domain.Order) (int, error)

	Menus(ctx context.Context, fastFoodID string) ([]domain.Menu, error)
	AddMenu(ctx context.Context, m domain.Menu) (domain.Menu, error)

	Transactions(ctx context.Context, userID string) ([]domain.Transaction, error)

	Notifications(ctx context.Context, userID, fastFoodID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id, groupID string) error

	Bonuses(ctx context.Context) ([]domain.Bonus, error)
	AddBonusRequest(ctx context.Context, r domain.BonusRequest) error

	FastFoods(ctx context.Context) ([]domain.FastFood, error)
	GetUser(ctx context.Context, uid string) (domain.User, error)
	SetPushToken(ctx context.Context, uid, token string) error
}
