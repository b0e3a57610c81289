package admission

import "context"

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// Settings keys read through SettingsProvider.
const (
	KeyAnonymousDisplay  = "anonymous.display"
	KeyRequireLogin      = "requireLogin"
	KeyRedirectAnonymous = "redirectAnonymous"
	KeyConsentRequire    = "consent.require"
	KeyConsentModal      = "consent.modal"
	KeyConsentAccept     = "consent.consent_button_text"
	KeyConsentDeny       = "consent.deny_button_text"
)

// SettingsProvider is read-only key/value access to plugin configuration.
// Unknown keys return nil.
type SettingsProvider interface {
	Get(key string) any
}

// UserStatusProvider answers questions about the current caller.
type UserStatusProvider interface {
	IsLoggedIn() bool
	HasConsentedToCookies() bool
}

// SiteLookup counts sites matching an identifier on a multisite deployment.
type SiteLookup interface {
	CountSitesMatching(ctx context.Context, id string) (int, error)
}

// NonceVerifier checks a nonce token against the action it was issued for.
type NonceVerifier interface {
	Verify(ctx context.Context, token, action string) bool
}

// ReadSettings returns the admission settings of p, taken in one consistent
// read when p supports it and key by key otherwise.
func ReadSettings(p SettingsProvider) Settings {
	if snap, ok := p.(SettingsSnapshotter); ok {
		return snap.Snapshot()
	}
	return SnapshotSettings(p)
}

// SnapshotSettings reads every admission key from p once. Values of the wrong
// type read as their zero value.
func SnapshotSettings(p SettingsProvider) Settings {
	return Settings{
		AnonymousDisplayAllowed: boolValue(p.Get(KeyAnonymousDisplay)),
		RequireLogin:            boolValue(p.Get(KeyRequireLogin)),
		RedirectAnonymous:       boolValue(p.Get(KeyRedirectAnonymous)),
		ConsentRequired:         boolValue(p.Get(KeyConsentRequire)),
		ConsentModalText:        stringValue(p.Get(KeyConsentModal)),
		ConsentAcceptText:       stringValue(p.Get(KeyConsentAccept)),
		ConsentDenyText:         stringValue(p.Get(KeyConsentDeny)),
	}
}

// SnapshotCaller freezes a UserStatusProvider into a CallerStatus.
func SnapshotCaller(p UserStatusProvider) CallerStatus {
	return CallerStatus{
		LoggedIn:           p.IsLoggedIn(),
		ConsentedToCookies: p.HasConsentedToCookies(),
	}
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
