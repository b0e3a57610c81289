package nonce

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"favorites/internal/admission"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

// Creator issues nonces.
type Creator interface {
	Create(ctx context.Context, action string) (string, error)
}

// Handler serves fresh nonces to the client script.
type Handler struct {
	nonces Creator
	logger *slog.Logger
}

// NewHandler creates a nonce Handler.
func NewHandler(nonces Creator, logger *slog.Logger) *Handler {
	return &Handler{nonces: nonces, logger: logger}
}

// Register mounts GET /favorites/nonce.
func (h *Handler) Register(r chi.Router) {
	r.Get("/favorites/nonce", h.handleNonce)
}

func (h *Handler) handleNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, err := h.nonces.Create(ctx, admission.NonceAction)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create nonce",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"nonce": token})
}
