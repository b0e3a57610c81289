package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"favorites/internal/settings"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

const maxFormMemory = 1 << 20

// FormAction is the nonce action the settings form is signed for.
const FormAction = "favorites_settings"

// FormTokenField carries the settings form nonce.
const FormTokenField = "_settings_nonce"

// Repository is the settings surface the admin page needs.
type Repository interface {
	Document() settings.Document
	Update(ctx context.Context, doc settings.Document) error
}

// FormTokens issues and checks the nonce embedded in the settings form. The
// admin token may arrive as an ambient cookie, so a form post is only trusted
// when it echoes a nonce the page rendered.
type FormTokens interface {
	Create(ctx context.Context, action string) (string, error)
	Verify(ctx context.Context, token, action string) bool
}

// Handler serves the settings admin page and its JSON twin.
type Handler struct {
	repo   Repository
	tokens FormTokens
	logger *slog.Logger
}

// New creates a settings Handler.
func New(repo Repository, tokens FormTokens, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, tokens: tokens, logger: logger}
}

// Register mounts the admin routes. Callers wrap r with admin auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/settings", h.handlePage)
	r.Post("/admin/settings", h.handleSave)
	r.Get("/admin/settings.json", h.handleGetJSON)
	r.Put("/admin/settings.json", h.handlePutJSON)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	tab, ok := resolveTab(r.URL.Query().Get("tab"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, pageData{
		Tab:     tab,
		Tabs:    tabs,
		Doc:     h.repo.Document(),
		Updated: r.URL.Query().Get("updated") == "true",
	})
}

// render signs a fresh form nonce into data before writing the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	ctx := r.Context()
	token, err := h.tokens.Create(ctx, FormAction)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign settings form",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		http.Error(w, "Settings page unavailable.", http.StatusInternalServerError)
		return
	}
	data.Token = token
	data.TokenField = FormTokenField
	renderSettings(w, status, data)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tab, ok := resolveTab(r.URL.Query().Get("tab"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := parseForm(r); err != nil {
		h.logger.WarnContext(ctx, "invalid settings form",
			"request_id", requestID,
			"error", err,
		)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if !h.tokens.Verify(ctx, r.PostForm.Get(FormTokenField), FormAction) {
		h.logger.WarnContext(ctx, "settings form nonce rejected",
			"request_id", requestID,
		)
		http.Error(w, "The settings form has expired. Reload the page and try again.", http.StatusForbidden)
		return
	}

	doc := documentFromForm(h.repo.Document(), r.PostForm)
	if err := h.repo.Update(ctx, doc); err != nil {
		status := http.StatusInternalServerError
		message := "Settings could not be saved."
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			status = http.StatusBadRequest
			if de, ok := dErrors.As(err); ok {
				message = de.Message
			}
		} else {
			h.logger.ErrorContext(ctx, "failed to save settings",
				"request_id", requestID,
				"error", err,
			)
		}
		h.render(w, r, status, pageData{Tab: tab, Tabs: tabs, Doc: doc, Error: message})
		return
	}

	h.logger.InfoContext(ctx, "settings updated", "request_id", requestID, "tab", tab)
	http.Redirect(w, r, "/admin/settings?tab="+url.QueryEscape(tab)+"&updated=true", http.StatusSeeOther)
}

func (h *Handler) handleGetJSON(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.repo.Document())
}

func (h *Handler) handlePutJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	doc := settings.Defaults()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormMemory))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		h.logger.WarnContext(ctx, "invalid settings body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.repo.Update(ctx, doc); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to save settings",
				"request_id", requestID,
				"error", err,
			)
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func resolveTab(name string) (string, bool) {
	if name == "" {
		return tabs[0].Name, true
	}
	for _, t := range tabs {
		if t.Name == name {
			return name, true
		}
	}
	return "", false
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(maxFormMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return nil
	}
	return r.ParseForm()
}

// documentFromForm applies the general tab fields onto current. Checkboxes
// absent from the form read as unchecked.
func documentFromForm(current settings.Document, form url.Values) settings.Document {
	doc := current
	doc.Anonymous.Display = checked(form, "anonymous_display")
	doc.Anonymous.Save = checked(form, "anonymous_save")
	doc.RequireLogin = checked(form, "require_login")
	doc.RedirectAnonymous = checked(form, "redirect_anonymous")
	doc.RedirectURL = strings.TrimSpace(form.Get("redirect_url"))
	doc.Consent.Require = checked(form, "consent_require")
	doc.Consent.Modal = strings.TrimSpace(form.Get("consent_modal"))
	doc.Consent.ConsentButtonText = strings.TrimSpace(form.Get("consent_button_text"))
	doc.Consent.DenyButtonText = strings.TrimSpace(form.Get("deny_button_text"))
	return doc
}

func checked(form url.Values, name string) bool {
	switch form.Get(name) {
	case "true", "on", "1":
		return true
	default:
		return false
	}
}
