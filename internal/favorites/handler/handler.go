// Package handler serves the favorites endpoints behind the admission
// middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"favorites/internal/admission"
	admissionhandler "favorites/internal/admission/handler"
	"favorites/internal/favorites"
	"favorites/internal/platform/metrics"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

// Service is the favorites behavior the handlers need.
type Service interface {
	Toggle(ctx context.Context, owner string, fav favorites.Favorite, status favorites.Status) (favorites.Result, error)
	List(ctx context.Context, owner string) ([]favorites.SiteFavorites, error)
	Clear(ctx context.Context, owner string, siteID int64) error
	Count(ctx context.Context, fav favorites.Favorite) (int64, error)
}

// Handler serves the favorites listeners.
type Handler struct {
	service Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a favorites Handler. m may be nil.
func New(service Service, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{service: service, metrics: m, logger: logger}
}

// Register mounts the favorites routes, each gated by gate. Mutating routes
// also require a nonce and a valid site.
func (h *Handler) Register(r chi.Router, gate *admissionhandler.Middleware) {
	guarded := gate.Admit(admission.WithNonce(admission.NonceAction), admission.WithSiteCheck())
	plain := gate.Admit()

	r.With(guarded).Post("/favorites/favorite", h.handleFavorite)
	r.With(guarded).Post("/favorites/clear", h.handleClear)
	r.With(plain).Post("/favorites/array", h.handleArray)
	r.With(plain).Post("/favorites/count", h.handleCount)
}

func (h *Handler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, _ := admission.FromContext(ctx)
	owner := requestcontext.Owner(ctx)

	fav, err := favoriteFrom(req)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	status := favorites.Status(req.Value("status"))

	result, err := h.service.Toggle(ctx, owner, fav, status)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	h.metrics.IncrementToggle(string(result.Status))

	list, err := h.service.List(ctx, owner)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":        admission.StatusSuccess,
		"favorite_data": result,
		"favorites":     list,
	})
}

func (h *Handler) handleArray(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.List(ctx, requestcontext.Owner(ctx))
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    admission.StatusSuccess,
		"favorites": list,
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, _ := admission.FromContext(ctx)
	owner := requestcontext.Owner(ctx)

	siteID, err := siteIDFrom(req)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	if err := h.service.Clear(ctx, owner, siteID); err != nil {
		h.sendError(ctx, w, err)
		return
	}

	list, err := h.service.List(ctx, owner)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    admission.StatusSuccess,
		"favorites": list,
	})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, _ := admission.FromContext(ctx)

	fav, err := favoriteFrom(req)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	count, err := h.service.Count(ctx, fav)
	if err != nil {
		h.sendError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": admission.StatusSuccess,
		"count":  count,
	})
}

// sendError answers with the error payload the client script expects.
// Internal failures are logged and reported with the default message.
func (h *Handler) sendError(ctx context.Context, w http.ResponseWriter, err error) {
	message := ""
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		message = de.Message
	} else {
		h.logger.ErrorContext(ctx, "favorites request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteJSON(w, http.StatusOK, admission.ErrorPayload(message))
}

func favoriteFrom(req admission.Request) (favorites.Favorite, error) {
	siteID, err := siteIDFrom(req)
	if err != nil {
		return favorites.Favorite{}, err
	}
	postID, err := strconv.ParseInt(req.Value("postid"), 10, 64)
	if err != nil || postID <= 0 {
		return favorites.Favorite{}, dErrors.New(dErrors.CodeInvalidInput, "Invalid post id")
	}
	return favorites.Favorite{SiteID: siteID, PostID: postID}, nil
}

func siteIDFrom(req admission.Request) (int64, error) {
	raw, ok := req.SiteID()
	if !ok || raw == "" {
		return favorites.DefaultSiteID, nil
	}
	siteID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || siteID <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "Invalid site id")
	}
	return siteID, nil
}
