// Package favorites stores which posts each owner favorited and keeps the
// per-post favorite totals.
package favorites

// Status is the state a favorite is switched to.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DefaultSiteID is used when a request names no site.
const DefaultSiteID int64 = 1

// Favorite identifies a post on a site.
type Favorite struct {
	SiteID int64
	PostID int64
}

// Result describes a favorite after a toggle.
type Result struct {
	ID     int64  `json:"id"`
	SiteID int64  `json:"siteid"`
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// SiteFavorites lists an owner's favorite posts on one site.
type SiteFavorites struct {
	SiteID int64   `json:"site_id"`
	Posts  []int64 `json:"posts"`
}
