package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store. Nested order parts (menu snapshot,
// packagings, drink, delivery) live in jsonb columns; see schema.sql.
type PGStore struct {
	DB *pgxpool.Pool
}

const orderColumns = `id, user_id, fastfood_id, quantity, status, is_buy, is_pending, prix_total, menu, packagings, drink, delivery`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o                              domain.Order
		menu, packagings, drink, deliv []byte
	)
	err := row.Scan(&o.ID, &o.UserID, &o.FastFoodID, &o.Quantity, &o.Status,
		&o.IsBuy, &o.IsPending, &o.TotalPrice, &menu, &packagings, &drink, &deliv)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(menu, &o.Menu); err != nil {
		return o, fmt.Errorf("decode menu snapshot: %w", err)
	}
	if len(packagings) > 0 {
		if err := json.Unmarshal(packagings, &o.Packagings); err != nil {
			return o, err
		}
	}
	if err := json.Unmarshal(drink, &o.Drink); err != nil {
		return o, err
	}
	if err := json.Unmarshal(deliv, &o.Delivery); err != nil {
		return o, err
	}
	return o, nil
}

func (s *PGStore) ordersWhere(ctx context.Context, clause string, arg any) ([]domain.Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderColumns+` FROM commandes WHERE `+clause+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PGStore) UserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.ordersWhere(ctx, `user_id=$1`, userID)
}

func (s *PGStore) FastFoodOrders(ctx context.Context, fastFoodID string) ([]domain.Order, error) {
	return s.ordersWhere(ctx, `fastfood_id=$1`, fastFoodID)
}

func (s *PGStore) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM commandes WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

func orderJSON(o domain.Order) (menu, packagings, drink, deliv []byte, err error) {
	if menu, err = json.Marshal(o.Menu); err != nil {
		return
	}
	if packagings, err = json.Marshal(o.Packagings); err != nil {
		return
	}
	if drink, err = json.Marshal(o.Drink); err != nil {
		return
	}
	deliv, err = json.Marshal(o.Delivery)
	return
}

func (s *PGStore) AddOrder(ctx context.Context, o domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	menu, packagings, drink, deliv, err := orderJSON(o)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO commandes(`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			quantity=EXCLUDED.quantity, status=EXCLUDED.status,
			is_buy=EXCLUDED.is_buy, is_pending=EXCLUDED.is_pending,
			prix_total=EXCLUDED.prix_total, menu=EXCLUDED.menu,
			packagings=EXCLUDED.packagings, drink=EXCLUDED.drink,
			delivery=EXCLUDED.delivery`,
		o.ID, o.UserID, o.FastFoodID, o.Quantity, o.Status, o.IsBuy, o.IsPending,
		o.TotalPrice, menu, packagings, drink, deliv)
	return err
}

func (s *PGStore) DeleteOrder(ctx context.Context, id string) error {
	var status string
	err := s.DB.QueryRow(ctx, `SELECT status FROM commandes WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if domain.NormalizeStatus(status) != domain.StatusCart {
		return ErrConflict
	}
	_, err = s.DB.Exec(ctx, `DELETE FROM commandes WHERE id=$1`, id)
	return err
}

func (s *PGStore) UpdateOrderQuantity(ctx context.Context, id string, quantity int) error {
	ct, err := s.DB.Exec(ctx, `UPDATE commandes SET quantity=$2 WHERE id=$1`, id, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	to := domain.NormalizeStatus(status)
	if to == domain.StatusUnknown {
		return ErrConflict
	}
	var current string
	err := s.DB.QueryRow(ctx, `SELECT status FROM commandes WHERE id=$1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !domain.CanTransition(domain.NormalizeStatus(current), to) {
		return ErrConflict
	}
	_, err = s.DB.Exec(ctx, `UPDATE commandes SET status=$2 WHERE id=$1`, id, string(to))
	return err
}

func (s *PGStore) PurchaseCart(ctx context.Context, userID string, orders []domain.Order) (int, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, o := range orders {
		o.UserID = userID
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		menu, packagings, drink, deliv, err := orderJSON(o)
		if err != nil {
			return 0, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO commandes(`+orderColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			o.ID, o.UserID, o.FastFoodID, o.Quantity, o.Status, o.IsBuy, o.IsPending,
			o.TotalPrice, menu, packagings, drink, deliv)
		if err != nil {
			return 0, err
		}
	}

	var total float64
	var flipped int
	rows, err := tx.Query(ctx, `
		SELECT id, prix_total FROM commandes
		WHERE user_id=$1 AND status='pendingToBuy' FOR UPDATE`, userID)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		var prix float64
		if err := rows.Scan(&id, &prix); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
		total += prix
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if _, err := tx.Exec(ctx, `
			UPDATE commandes SET status='pending', is_buy=true, is_pending=false
			WHERE id=$1`, id); err != nil {
			return 0, err
		}
		flipped++
	}

	if flipped > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO transactions(id, user_id, amount, name, channel, type, created_at)
			VALUES ($1,$2,$3,'Achat commandes','',$4,$5)`,
			uuid.NewString(), userID, total, string(domain.Debit), time.Now().UTC()); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return flipped, nil
}

func (s *PGStore) Menus(ctx context.Context, fastFoodID string) ([]domain.Menu, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, fastfood_id, title, prices, image, availability
		FROM menus WHERE fastfood_id=$1 ORDER BY title`, fastFoodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Menu
	for rows.Next() {
		var m domain.Menu
		var prices []byte
		if err := rows.Scan(&m.ID, &m.FastFoodID, &m.Title, &prices, &m.Image, &m.Availability); err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			if err := json.Unmarshal(prices, &m.Prices); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PGStore) AddMenu(ctx context.Context, m domain.Menu) (domain.Menu, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	prices, err := json.Marshal(m.Prices)
	if err != nil {
		return m, err
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO menus(id, fastfood_id, title, prices, image, availability)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.FastFoodID, m.Title, prices, m.Image, m.Availability)
	return m, err
}

func (s *PGStore) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, user_id, amount, name, channel, type, created_at
		FROM transactions WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Name, &t.Channel, &t.Type, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) Notifications(ctx context.Context, userID, fastFoodID string) ([]domain.Notification, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, user_id, fastfood_id, title, message, is_read, group_id, type, created_at
		FROM notifications
		WHERE user_id=$1 OR ($2 <> '' AND fastfood_id=$2)
		ORDER BY created_at DESC`, userID, fastFoodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.FastFoodID, &n.Title, &n.Message,
			&n.IsRead, &n.GroupID, &n.Type, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkNotificationRead(ctx context.Context, id, groupID string) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE notifications SET is_read=true
		WHERE id=$1 OR ($2 <> '' AND group_id=$2)`, id, groupID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Bonuses(ctx context.Context) ([]domain.Bonus, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, title, description, min_paid_orders, amount
		FROM bonuses ORDER BY min_paid_orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Bonus
	for rows.Next() {
		var b domain.Bonus
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.MinPaidOrders, &b.Amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PGStore) AddBonusRequest(ctx context.Context, r domain.BonusRequest) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO bonus_requests(id, user_id, bonus_id, created_at)
		VALUES ($1,$2,$3,$4)`,
		uuid.NewString(), r.UserID, r.BonusID, time.Now().UTC())
	return err
}

func (s *PGStore) FastFoods(ctx context.Context) ([]domain.FastFood, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, user_id, name, image FROM fastfoods ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FastFood
	for rows.Next() {
		var f domain.FastFood
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Image); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) GetUser(ctx context.Context, uid string) (domain.User, error) {
	var u domain.User
	err := s.DB.QueryRow(ctx, `
		SELECT uid, name, surname, age, phone, email, password, is_seller, statistique, fastfood_id, push_token
		FROM users WHERE uid=$1`, uid).
		Scan(&u.UID, &u.Name, &u.Surname, &u.Age, &u.Phone, &u.Email, &u.Password,
			&u.IsSeller, &u.Statistique, &u.FastFoodID, &u.PushToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *PGStore) SetPushToken(ctx context.Context, uid, token string) error {
	ct, err := s.DB.Exec(ctx, `UPDATE users SET push_token=$2 WHERE uid=$1`, uid, token)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*PGStore)(nil)
