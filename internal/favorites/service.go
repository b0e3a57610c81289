package favorites

import (
	"context"
	"sort"

	dErrors "favorites/pkg/domain-errors"
)

// Service applies favorite changes for an owner.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Toggle switches fav to status for owner and returns the post's new total.
func (s *Service) Toggle(ctx context.Context, owner string, fav Favorite, status Status) (Result, error) {
	if owner == "" {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "favorites owner is required")
	}
	if fav.PostID <= 0 || fav.SiteID <= 0 {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "invalid post or site id")
	}

	var err error
	switch status {
	case StatusActive:
		_, err = s.store.Add(ctx, owner, fav)
	case StatusInactive:
		_, err = s.store.Remove(ctx, owner, fav)
	default:
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "status must be active or inactive")
	}
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update favorite")
	}

	count, err := s.Count(ctx, fav)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: fav.PostID, SiteID: fav.SiteID, Status: status, Count: count}, nil
}

// List returns owner's favorites ordered by site id.
func (s *Service) List(ctx context.Context, owner string) ([]SiteFavorites, error) {
	out := []SiteFavorites{}
	if owner == "" {
		return out, nil
	}
	bySite, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list favorites")
	}
	for siteID, posts := range bySite {
		out = append(out, SiteFavorites{SiteID: siteID, Posts: posts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteID < out[j].SiteID })
	return out, nil
}

// Clear removes owner's favorites on siteID.
func (s *Service) Clear(ctx context.Context, owner string, siteID int64) error {
	if owner == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "favorites owner is required")
	}
	if err := s.store.Clear(ctx, owner, siteID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear favorites")
	}
	return nil
}

// Count returns how many owners favorited fav.
func (s *Service) Count(ctx context.Context, fav Favorite) (int64, error) {
	count, err := s.store.Count(ctx, fav)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count favorites")
	}
	return count, nil
}
