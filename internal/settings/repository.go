// Package settings owns the plugin configuration: the persisted document,
// the stores that hold it and the read-only provider handed to admission.
package settings

import (
	"context"
	"fmt"
	"sync"

	"favorites/internal/admission"
)

// Store persists the settings document.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// Repository serves the current settings from memory and writes changes
// through to its Store. Reads never touch the store.
type Repository struct {
	store Store

	mu  sync.RWMutex
	doc Document
}

// NewRepository loads the current document from store.
func NewRepository(ctx context.Context, store Store) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	r := &Repository{store: store}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Get implements admission.SettingsProvider.
func (r *Repository) Get(key string) any {
	return r.Document().Get(key)
}

// Document returns a copy of the current settings.
func (r *Repository) Document() Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc
}

var _ admission.SettingsSnapshotter = (*Repository)(nil)

// Snapshot returns the admission view of the current settings, read from a
// single copy of the document.
func (r *Repository) Snapshot() admission.Settings {
	return admission.SnapshotSettings(r.Document())
}

// AnonymousDisplay reports whether anonymous visitors may use favorites.
func (r *Repository) AnonymousDisplay() bool {
	return r.Document().Anonymous.Display
}

// RequireLogin reports whether favorites need a logged-in user.
func (r *Repository) RequireLogin() bool {
	return r.Document().RequireLogin
}

// RedirectAnonymous reports whether anonymous visitors are redirected.
func (r *Repository) RedirectAnonymous() bool {
	return r.Document().RedirectAnonymous
}

// Consent returns a consent text by its short name (modal,
// consent_button_text, deny_button_text).
func (r *Repository) Consent(name string) string {
	s, _ := r.Get("consent." + name).(string)
	return s
}

// Update validates, persists and then publishes doc.
func (r *Repository) Update(ctx context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := r.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()
	return nil
}

// Reload replaces the in-memory document with the stored one.
func (r *Repository) Reload(ctx context.Context) error {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()
	return nil
}
