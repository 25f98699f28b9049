package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"restaurant-orders/internal/orders"
	"restaurant-orders/internal/redisx"
)

type OrdersHandler struct {
	Service *orders.Service
	Redis   *redis.Client // optional read-through caches
}

type CreateOrderReq struct {
	TableID int64                `json:"table_id"`
	Items   []orders.ItemRequest `json:"items"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Get("/orders/pending", h.listPending)
	r.Get("/sales", h.salesDetail)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the engine's failure taxonomy onto HTTP codes.
func statusFor(err error) int {
	var (
		notFound *orders.NotFoundError
		occupied *orders.TableOccupiedError
		closed   *orders.OrderClosedError
		stock    *orders.InsufficientStockError
		invalid  *orders.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &occupied), errors.As(err, &closed), errors.As(err, &stock):
		return http.StatusConflict
	case errors.As(err, &invalid),
		errors.Is(err, orders.ErrInvalidRange),
		errors.Is(err, orders.ErrFutureRange):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrTxAborted):
		// Safe for the caller to retry the whole operation.
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := orders.ValidateCreate(req.TableID, req.Items); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Create(ctx, req.TableID, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	status, err := orders.ParseOrderStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.UpdateStatus(ctx, id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// The kitchen consumer keeps a fresh snapshot in redis; serve it
	// when present, fall back to the store.
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyKitchenQueue).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	pending, err := h.Service.ListPending(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(pending); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyKitchenQueue, b, redisx.TTLKitchenQueue).Err()
		}
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *OrdersHandler) salesDetail(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeySalesReport, start, end)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	detail, err := h.Service.SalesDetail(ctx, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(detail); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLSalesReport).Err()
		}
	}
	writeJSON(w, http.StatusOK, detail)
}
