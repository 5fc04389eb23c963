package content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ScroogeKZ/CreativeStudio/internal/httpx"
	"github.com/ScroogeKZ/CreativeStudio/internal/middleware"
	"github.com/ScroogeKZ/CreativeStudio/internal/transport"
	"github.com/ScroogeKZ/CreativeStudio/internal/validation"
)

const maxPageLimit = 50

type Handler struct {
	service *ContentService
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *ContentService, val *validation.Validator, log *slog.Logger) *Handler {
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

func (h *Handler) writeListError(w http.ResponseWriter, log *slog.Logger, what string, err error) {
	log.Error(what+": database error", slog.String("error", err.Error()))
	transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
}

// --- public reads ---

func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListServices(ctx)
	if err != nil {
		h.writeListError(w, log, "services list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetServiceBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetServiceBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		h.writeListError(w, log, "service get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) GetCases(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), maxPageLimit)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if page > 0 && limit > 0 {
		result, err := h.service.ListCasesPage(ctx, page, limit)
		if err != nil {
			h.writeListError(w, log, "cases page", err)
			return
		}
		transport.WriteJSON(w, http.StatusOK, result)
		return
	}

	items, err := h.service.ListCases(ctx)
	if err != nil {
		h.writeListError(w, log, "cases list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetCaseBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetCaseBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		h.writeListError(w, log, "case get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), maxPageLimit)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch {
	case page > 0 && limit > 0:
		result, err := h.service.ListPostsPage(ctx, page, limit)
		if err != nil {
			h.writeListError(w, log, "posts page", err)
			return
		}
		transport.WriteJSON(w, http.StatusOK, result)
	case limit > 0:
		items, err := h.service.ListRecentPosts(ctx, limit)
		if err != nil {
			h.writeListError(w, log, "recent posts", err)
			return
		}
		transport.WriteJSON(w, http.StatusOK, items)
	default:
		items, err := h.service.ListPosts(ctx)
		if err != nil {
			h.writeListError(w, log, "posts list", err)
			return
		}
		transport.WriteJSON(w, http.StatusOK, items)
	}
}

func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "post not found", nil)
			return
		}
		h.writeListError(w, log, "post get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListTestimonials(ctx)
	if err != nil {
		h.writeListError(w, log, "testimonials list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

// --- admin: services ---

func (h *Handler) AdminListServices(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.AdminListServices(ctx)
	if err != nil {
		h.writeListError(w, log, "admin services list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminCreateService(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req ServiceUpsertRequest
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

	item, err := h.service.CreateService(ctx, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin service create", err)
		return
	}

	log.Info("admin service create: ok", slog.String("service_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateService(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req ServiceUpsertRequest
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

	item, err := h.service.UpdateService(ctx, id, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin service update", err)
		return
	}

	log.Info("admin service update: ok", slog.String("service_id", id), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteService(w http.ResponseWriter, r *http.Request) {
	h.adminDelete(w, r, "admin service delete", h.service.DeleteService)
}

// --- admin: cases ---

func (h *Handler) AdminListCases(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.AdminListCases(ctx)
	if err != nil {
		h.writeListError(w, log, "admin cases list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminCreateCase(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req CaseUpsertRequest
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

	item, err := h.service.CreateCase(ctx, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin case create", err)
		return
	}

	log.Info("admin case create: ok", slog.String("case_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateCase(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req CaseUpsertRequest
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

	item, err := h.service.UpdateCase(ctx, id, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin case update", err)
		return
	}

	log.Info("admin case update: ok", slog.String("case_id", id), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteCase(w http.ResponseWriter, r *http.Request) {
	h.adminDelete(w, r, "admin case delete", h.service.DeleteCase)
}

// --- admin: posts ---

func (h *Handler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.AdminListPosts(ctx)
	if err != nil {
		h.writeListError(w, log, "admin posts list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminCreatePost(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req PostUpsertRequest
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

	item, err := h.service.CreatePost(ctx, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin post create", err)
		return
	}

	log.Info("admin post create: ok", slog.String("post_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdatePost(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req PostUpsertRequest
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

	item, err := h.service.UpdatePost(ctx, id, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin post update", err)
		return
	}

	log.Info("admin post update: ok", slog.String("post_id", id), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeletePost(w http.ResponseWriter, r *http.Request) {
	h.adminDelete(w, r, "admin post delete", h.service.DeletePost)
}

// --- admin: testimonials ---

func (h *Handler) AdminListTestimonials(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.AdminListTestimonials(ctx)
	if err != nil {
		h.writeListError(w, log, "admin testimonials list", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req TestimonialUpsertRequest
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

	item, err := h.service.CreateTestimonial(ctx, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin testimonial create", err)
		return
	}

	log.Info("admin testimonial create: ok", slog.String("testimonial_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req TestimonialUpsertRequest
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

	item, err := h.service.UpdateTestimonial(ctx, id, req)
	if err != nil {
		h.writeUpsertError(w, log, "admin testimonial update", err)
		return
	}

	log.Info("admin testimonial update: ok", slog.String("testimonial_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	h.adminDelete(w, r, "admin testimonial delete", h.service.DeleteTestimonial)
}

// --- shared admin helpers ---

func (h *Handler) adminDelete(w http.ResponseWriter, r *http.Request, what string, del func(context.Context, string) error) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := del(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "not found", nil)
			return
		}
		h.writeListError(w, log, what, err)
		return
	}

	log.Info(what+": ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) writeUpsertError(w http.ResponseWriter, log *slog.Logger, what string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn(what + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
	default:
		log.Error(what+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
