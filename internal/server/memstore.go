package server

import (
	"context"
	"sync"
	"time"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/google/uuid"
)

// MemStore is the in-memory Store used by tests and local development.
type MemStore struct {
	mu            sync.RWMutex
	orders        []domain.Order
	menus         []domain.Menu
	transactions  []domain.Transaction
	notifications []domain.Notification
	bonuses       []domain.Bonus
	bonusRequests []domain.BonusRequest
	fastFoods     []domain.FastFood
	users         map[string]domain.User
}

func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]domain.User)}
}

func (s *MemStore) UserOrders(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *MemStore) FastFoodOrders(_ context.Context, fastFoodID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.FastFoodID == fastFoodID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *MemStore) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrNotFound
}

func (s *MemStore) AddOrder(_ context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			return nil
		}
	}
	s.orders = append(s.orders, o)
	return nil
}

func (s *MemStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == id {
			if o.NormalizedStatus() != domain.StatusCart {
				return ErrConflict
			}
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) UpdateOrderQuantity(_ context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Quantity = quantity
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) UpdateOrderStatus(_ context.Context, id, status string) error {
	to := domain.NormalizeStatus(status)
	if to == domain.StatusUnknown {
		return ErrConflict
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			if !domain.CanTransition(s.orders[i].NormalizedStatus(), to) {
				return ErrConflict
			}
			s.orders[i].Status = string(to)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) PurchaseCart(_ context.Context, userID string, orders []domain.Order) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orders {
		o.UserID = userID
		found := false
		for i := range s.orders {
			if s.orders[i].ID == o.ID {
				s.orders[i] = o
				found = true
				break
			}
		}
		if !found {
			if o.ID == "" {
				o.ID = uuid.NewString()
			}
			s.orders = append(s.orders, o)
		}
	}

	flipped := 0
	var total float64
	for i := range s.orders {
		if s.orders[i].UserID == userID && s.orders[i].NormalizedStatus() == domain.StatusCart {
			s.orders[i].Status = string(domain.StatusPending)
			s.orders[i].IsBuy = true
			s.orders[i].IsPending = false
			total += s.orders[i].TotalPrice
			flipped++
		}
	}
	if flipped > 0 {
		s.transactions = append(s.transactions, domain.Transaction{
			ID:        uuid.NewString(),
			UserID:    userID,
			Amount:    total,
			Name:      "Achat commandes",
			Type:      domain.Debit,
			CreatedAt: time.Now().UTC(),
		})
	}
	return flipped, nil
}

func (s *MemStore) Menus(_ context.Context, fastFoodID string) ([]domain.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Menu
	for _, m := range s.menus {
		if m.FastFoodID == fastFoodID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemStore) AddMenu(_ context.Context, m domain.Menu) (domain.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.menus = append(s.menus, m)
	return m, nil
}

func (s *MemStore) Transactions(_ context.Context, userID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemStore) AddTransaction(t domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.transactions = append(s.transactions, t)
}

func (s *MemStore) Notifications(_ context.Context, userID, fastFoodID string) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID || (fastFoodID != "" && n.FastFoodID == fastFoodID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *MemStore) AddNotification(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.notifications = append(s.notifications, n)
}

func (s *MemStore) MarkNotificationRead(_ context.Context, id, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i, n := range s.notifications {
		if n.ID == id || (groupID != "" && n.GroupID == groupID) {
			s.notifications[i].IsRead = true
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *MemStore) Bonuses(_ context.Context) ([]domain.Bonus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bonus, len(s.bonuses))
	copy(out, s.bonuses)
	return out, nil
}

func (s *MemStore) AddBonus(b domain.Bonus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.bonuses = append(s.bonuses, b)
}

func (s *MemStore) AddBonusRequest(_ context.Context, r domain.BonusRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bonusRequests = append(s.bonusRequests, r)
	return nil
}

func (s *MemStore) FastFoods(_ context.Context) ([]domain.FastFood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FastFood, len(s.fastFoods))
	copy(out, s.fastFoods)
	return out, nil
}

func (s *MemStore) AddFastFood(f domain.FastFood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.fastFoods = append(s.fastFoods, f)
}

func (s *MemStore) GetUser(_ context.Context, uid string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemStore) SetPushToken(_ context.Context, uid, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return ErrNotFound
	}
	u.PushToken = token
	s.users[uid] = u
	return nil
}

func (s *MemStore) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
}

var _ Store = (*MemStore)(nil)
