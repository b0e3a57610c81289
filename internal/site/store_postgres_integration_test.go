//go:build integration

package site_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"favorites/internal/site"
	"favorites/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *site.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = site.NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(context.Background(), `TRUNCATE sites`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestCountSitesMatching() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, site.Site{ID: 1, Domain: "example.com", Path: "/"}))
	s.Require().NoError(s.store.Add(ctx, site.Site{ID: 2, Domain: "example.com", Path: "/shop/"}))

	count, err := s.store.CountSitesMatching(ctx, "2")
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.store.CountSitesMatching(ctx, "9")
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *PostgresStoreSuite) TestNonNumericIDCountsAsZero() {
	count, err := s.store.CountSitesMatching(context.Background(), "not-a-number")
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *PostgresStoreSuite) TestAddIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, site.Site{ID: 5, Domain: "a.example", Path: "/"}))
	s.Require().NoError(s.store.Add(ctx, site.Site{ID: 5, Domain: "b.example", Path: "/"}))

	count, err := s.store.CountSitesMatching(ctx, "5")
	s.Require().NoError(err)
	s.Equal(1, count)
}
