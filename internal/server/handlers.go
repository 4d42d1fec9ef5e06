package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Tchindavaldo/yaammoo-core/internal/bridge"
	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	kafkax "github.com/Tchindavaldo/yaammoo-core/internal/kafka"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Handler serves the ordering HTTP surface and publishes the matching bridge
// event after every successful mutation.
type Handler struct {
	Store     Store
	Events    Publisher // optional
	Service   string
	PublicURL string // embedded in pickup QR codes
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/order/user/all/{uid}", h.userOrders)
	r.Post("/order/add", h.addOrder)
	r.Delete("/order/delete/{id}", h.deleteOrder)
	r.Put("/order/update/{id}", h.updateQuantity)
	r.Put("/order/tabs/{uid}", h.purchaseCart)
	r.Get("/order/all/{fastFoodId}", h.fastFoodOrders)
	r.Put("/order/status/{id}", h.updateStatus)
	r.Get("/order/qr/{id}", h.orderQR)

	r.Get("/menu/{fastFoodId}", h.menus)
	r.Post("/menu/add", h.addMenu)

	r.Get("/transaction/{userId}", h.transactions)

	r.Get("/notification/user", h.notifications)
	r.Put("/notification/read/{id}", h.markRead)

	r.Get("/bonus", h.bonuses)
	r.Post("/bonus-request", h.bonusRequest)

	r.Get("/fastfood/all", h.fastFoods)
	r.Get("/user/{uid}", h.user)
	r.Put("/user/pushtoken/{uid}", h.pushToken)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) publish(eventType, userID, fastFoodID string, payload any) {
	if h.Events == nil {
		return
	}
	env := bridge.Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		UserID:     userID,
		FastFoodID: fastFoodID,
		OccurredAt: time.Now().UTC(),
		Producer:   h.Service,
	}
	if payload != nil {
		env.Payload = kafkax.MustMarshal(payload)
	}
	key := userID
	if key == "" {
		key = fastFoodID
	}
	h.Events.Publish([]byte(key), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
	)
}

func reqCtx(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.UserOrders(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addOrder(w http.ResponseWriter, r *http.Request) {
	var o domain.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if o.UserID == "" || o.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = string(domain.StatusCart)
	}

	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	if err := h.Store.AddOrder(ctx, o); err != nil {
		writeStoreErr(w, err)
		return
	}
	h.publish(bridge.EventNewUserOrder, o.UserID, "", nil)
	if o.FastFoodID != "" {
		h.publish(bridge.EventNewFastFoodOrder, "", o.FastFoodID, nil)
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	o, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if err := h.Store.DeleteOrder(ctx, id); err != nil {
		writeStoreErr(w, err)
		return
	}
	h.publish(bridge.EventUserOrderUpdated, o.UserID, "", nil)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be >= 1"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateOrderQuantity(ctx, id, req.Quantity); err != nil {
		writeStoreErr(w, err)
		return
	}
	o, err := h.Store.GetOrder(ctx, id)
	if err == nil {
		h.publish(bridge.EventUserOrderUpdated, o.UserID, "", nil)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) purchaseCart(w http.ResponseWriter, r *http.Request) {
	var incoming []domain.Order
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	uid := chi.URLParam(r, "uid")
	flipped, err := h.Store.PurchaseCart(ctx, uid, incoming)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if flipped > 0 {
		h.publish(bridge.EventNewUserOrders, uid, "", nil)
		h.publish(bridge.EventNewTransaction, uid, "", nil)
		seen := map[string]bool{}
		for _, o := range incoming {
			if o.FastFoodID != "" && !seen[o.FastFoodID] {
				seen[o.FastFoodID] = true
				h.publish(bridge.EventNewFastFoodOrders, "", o.FastFoodID, nil)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"purchased": flipped})
}

func (h *Handler) fastFoodOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.FastFoodOrders(ctx, chi.URLParam(r, "fastFoodId"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing status"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateOrderStatus(ctx, id, req.Status); err != nil {
		writeStoreErr(w, err)
		return
	}
	if o, err := h.Store.GetOrder(ctx, id); err == nil {
		h.publish(bridge.EventUserOrderUpdated, o.UserID, "", nil)
		if o.FastFoodID != "" {
			h.publish(bridge.EventFastFoodOrderUpdated, "", o.FastFoodID, nil)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) menus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.Menus(ctx, chi.URLParam(r, "fastFoodId"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Menu{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addMenu(w http.ResponseWriter, r *http.Request) {
	var m domain.Menu
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if m.FastFoodID == "" || m.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	if len(m.Prices) > 3 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at most three price tiers"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	created, err := h.Store.AddMenu(ctx, m)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.Transactions(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("userId")
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing userId"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.Notifications(ctx, uid, r.URL.Query().Get("fastFoodId"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.MarkNotificationRead(ctx, id, r.URL.Query().Get("groupId")); err != nil {
		writeStoreErr(w, err)
		return
	}
	h.publish(bridge.EventIsRead, r.URL.Query().Get("userId"), "", nil)
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (h *Handler) bonuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.Bonuses(ctx)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Bonus{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) bonusRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.BonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.BonusID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	if err := h.Store.AddBonusRequest(ctx, req); err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"requested": true})
}

func (h *Handler) fastFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Store.FastFoods(ctx)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if out == nil {
		out = []domain.FastFood{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) pushToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing token"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	if err := h.Store.SetPushToken(ctx, chi.URLParam(r, "uid"), req.Token); err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": true})
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	u, err := h.Store.GetUser(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
