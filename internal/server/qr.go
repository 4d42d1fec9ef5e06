package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// orderQR renders a pickup QR code for an order. The merchant scans it at
// the counter to pull up the order.
func (h *Handler) orderQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetOrder(ctx, id); err != nil {
		writeStoreErr(w, err)
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/order/%s", h.PublicURL, id), qrcode.Medium, 256)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
