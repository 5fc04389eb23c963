package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ScroogeKZ/CreativeStudio/internal/httpx"
	"github.com/ScroogeKZ/CreativeStudio/internal/middleware"
	"github.com/ScroogeKZ/CreativeStudio/internal/transport"
	"github.com/ScroogeKZ/CreativeStudio/internal/validation"
)

type Handler struct {
	admins  *AdminService
	clients *ClientService
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(admins *AdminService, clients *ClientService, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		admins:  admins,
		clients: clients,
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

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req AdminLoginRequest
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

	token, user, err := h.admins.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("admin login: invalid credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin login: ok", slog.String("admin_id", user.ID))
	transport.WriteJSON(w, http.StatusOK, AdminAuthResponse{Token: token, User: user})
}

func (h *Handler) AdminMe(w http.ResponseWriter, r *http.Request) {
	user, ok := AdminFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ClientRegister(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req ClientRegisterRequest
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

	token, client, err := h.clients.Register(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			log.Warn("client register: email taken")
			transport.WriteError(w, http.StatusConflict, "email already registered", nil)
			return
		}
		log.Error("client register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("client register: ok", slog.String("client_id", client.ID))
	transport.WriteJSON(w, http.StatusCreated, ClientAuthResponse{Token: token, Client: client})
}

func (h *Handler) ClientLogin(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req ClientLoginRequest
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

	token, client, err := h.clients.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("client login: invalid credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("client login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("client login: ok", slog.String("client_id", client.ID))
	transport.WriteJSON(w, http.StatusOK, ClientAuthResponse{Token: token, Client: client})
}

func (h *Handler) ClientMe(w http.ResponseWriter, r *http.Request) {
	client, ok := ClientFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) AdminListClients(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	clients, err := h.clients.ListClients(ctx)
	if err != nil {
		log.Error("admin clients list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, clients)
}
