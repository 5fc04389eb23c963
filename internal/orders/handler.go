package orders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ScroogeKZ/CreativeStudio/internal/httpx"
	"github.com/ScroogeKZ/CreativeStudio/internal/identity"
	"github.com/ScroogeKZ/CreativeStudio/internal/middleware"
	"github.com/ScroogeKZ/CreativeStudio/internal/transport"
	"github.com/ScroogeKZ/CreativeStudio/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func (h *Handler) writeOrderError(w http.ResponseWriter, log *slog.Logger, what string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "order not found", nil)
	case errors.Is(err, ErrAccessDenied):
		log.Warn(what + ": access denied")
		transport.WriteError(w, http.StatusForbidden, "access denied", nil)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidProgress), errors.Is(err, ErrInvalidType):
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		log.Error(what+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

func urlID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// --- admin surface ---

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListOrders(ctx)
	if err != nil {
		h.writeOrderError(w, log, "admin orders list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.writeOrderError(w, log, "admin order get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) AdminCreateOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req OrderCreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, req)
	if err != nil {
		h.writeOrderError(w, log, "admin order create", err)
		return
	}

	log.Info("admin order create: ok", slog.String("order_id", order.ID), slog.String("client_id", order.ClientID))
	transport.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) AdminUpdateOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req OrderPatchRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	order, err := h.service.UpdateOrder(ctx, id, req)
	if err != nil {
		h.writeOrderError(w, log, "admin order update", err)
		return
	}

	log.Info("admin order update: ok", slog.String("order_id", id), slog.String("status", order.Status))
	transport.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DeleteOrder(ctx, id); err != nil {
		h.writeOrderError(w, log, "admin order delete", err)
		return
	}

	log.Info("admin order delete: ok", slog.String("order_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminListTasks(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.service.ListTasks(ctx, id)
	if err != nil {
		h.writeOrderError(w, log, "admin tasks list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) AdminCreateTask(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req TaskCreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	task, err := h.service.CreateTask(ctx, id, req)
	if err != nil {
		h.writeOrderError(w, log, "admin task create", err)
		return
	}

	log.Info("admin task create: ok", slog.String("order_id", id), slog.String("task_id", task.ID))
	transport.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) AdminCompleteTask(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := h.service.CompleteTask(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "task not found", nil)
			return
		}
		h.writeOrderError(w, log, "admin task complete", err)
		return
	}

	log.Info("admin task complete: ok", slog.String("task_id", id))
	transport.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) AdminListUpdates(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updates, err := h.service.ListUpdates(ctx, id)
	if err != nil {
		h.writeOrderError(w, log, "admin updates list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, updates)
}

func (h *Handler) AdminCreateUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateCreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	update, err := h.service.AddUpdate(ctx, id, req)
	if err != nil {
		h.writeOrderError(w, log, "admin update create", err)
		return
	}

	log.Info("admin update create: ok", slog.String("order_id", id), slog.String("update_id", update.ID))
	transport.WriteJSON(w, http.StatusCreated, update)
}

// --- client surface ---

func clientFromRequest(w http.ResponseWriter, r *http.Request) (identity.Client, bool) {
	client, ok := identity.ClientFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
	}
	return client, ok
}

func (h *Handler) ClientListOrders(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	client, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ClientOrders(ctx, client.ID)
	if err != nil {
		h.writeOrderError(w, log, "client orders list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) ClientGetOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	client, ok := clientFromRequest(w, r)
	if !ok {
		return
	}
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.service.ClientOrder(ctx, client.ID, id)
	if err != nil {
		h.writeOrderError(w, log, "client order get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ClientListTasks(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	client, ok := clientFromRequest(w, r)
	if !ok {
		return
	}
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.service.ClientTasks(ctx, client.ID, id)
	if err != nil {
		h.writeOrderError(w, log, "client tasks list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) ClientListUpdates(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	client, ok := clientFromRequest(w, r)
	if !ok {
		return
	}
	id := urlID(r)
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updates, err := h.service.ClientUpdates(ctx, client.ID, id)
	if err != nil {
		h.writeOrderError(w, log, "client updates list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, updates)
}

func (h *Handler) ClientStats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	client, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.ClientStats(ctx, client.ID)
	if err != nil {
		h.writeOrderError(w, log, "client stats", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, stats)
}
