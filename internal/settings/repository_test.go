package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"favorites/internal/admission"
	dErrors "favorites/pkg/domain-errors"
)

type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
	repo  *Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore(Defaults())
	repo, err := NewRepository(s.ctx, s.store)
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RepositorySuite) TestNewRepository() {
	s.Run("nil store returns error", func() {
		_, err := NewRepository(s.ctx, nil)
		s.ErrorContains(err, "settings store is required")
	})

	s.Run("load failure is returned", func() {
		_, err := NewRepository(s.ctx, failingStore{})
		s.ErrorContains(err, "load settings")
	})
}

func (s *RepositorySuite) TestGetKeys() {
	doc := Defaults()
	doc.Anonymous.Display = true
	doc.RequireLogin = true
	doc.RedirectAnonymous = true
	doc.Consent.Require = true
	doc.Consent.Modal = "modal text"
	s.Require().NoError(s.repo.Update(s.ctx, doc))

	s.Equal(true, s.repo.Get(admission.KeyAnonymousDisplay))
	s.Equal(true, s.repo.Get(admission.KeyRequireLogin))
	s.Equal(true, s.repo.Get(admission.KeyRedirectAnonymous))
	s.Equal(true, s.repo.Get(admission.KeyConsentRequire))
	s.Equal("modal text", s.repo.Get(admission.KeyConsentModal))
	s.Equal("I Consent", s.repo.Get(admission.KeyConsentAccept))
	s.Equal("No Thanks", s.repo.Get(admission.KeyConsentDeny))
	s.Nil(s.repo.Get("unknown.key"))

	s.True(s.repo.AnonymousDisplay())
	s.True(s.repo.RequireLogin())
	s.True(s.repo.RedirectAnonymous())
	s.Equal("modal text", s.repo.Consent("modal"))
}

func (s *RepositorySuite) TestSnapshot() {
	doc := Defaults()
	doc.RequireLogin = true
	s.Require().NoError(s.repo.Update(s.ctx, doc))

	snap := s.repo.Snapshot()
	s.True(snap.RequireLogin)
	s.False(snap.AnonymousDisplayAllowed)
	s.Equal(doc.Consent.Modal, snap.ConsentModalText)
	s.Equal(doc.Consent.ConsentButtonText, snap.ConsentAcceptText)
	s.Equal(doc.Consent.DenyButtonText, snap.ConsentDenyText)
}

func (s *RepositorySuite) TestUpdate() {
	s.Run("persists valid document", func() {
		doc := Defaults()
		doc.Anonymous.Save = true
		s.Require().NoError(s.repo.Update(s.ctx, doc))

		stored, err := s.store.Load(s.ctx)
		s.Require().NoError(err)
		s.True(stored.Anonymous.Save)
	})

	s.Run("rejects invalid document without publishing it", func() {
		doc := Defaults()
		doc.Consent.Require = true
		doc.Consent.DenyButtonText = ""
		err := s.repo.Update(s.ctx, doc)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.NotEmpty(s.repo.Consent("deny_button_text"))
	})
}

func (s *RepositorySuite) TestReload() {
	doc := Defaults()
	doc.RequireLogin = true
	s.Require().NoError(s.store.Save(s.ctx, doc))
	s.False(s.repo.RequireLogin())

	s.Require().NoError(s.repo.Reload(s.ctx))
	s.True(s.repo.RequireLogin())
}

type failingStore struct{}

func (failingStore) Load(context.Context) (Document, error) {
	return Document{}, errors.New("disk gone")
}

func (failingStore) Save(context.Context, Document) error {
	return errors.New("disk gone")
}

func (s *RepositorySuite) TestSnapshotNeverMixesDocuments() {
	docA := Defaults()
	docA.RequireLogin = true
	docA.Consent.Modal = "A"
	docB := Defaults()
	docB.Consent.Modal = "B"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 500 {
			doc := docA
			if i%2 == 1 {
				doc = docB
			}
			_ = s.repo.Update(s.ctx, doc)
		}
	}()

	for range 500 {
		snap := admission.ReadSettings(s.repo)
		if snap.RequireLogin {
			s.Require().Equal("A", snap.ConsentModalText)
		} else if snap.ConsentModalText != Defaults().Consent.Modal {
			s.Require().Equal("B", snap.ConsentModalText)
		}
	}
	wg.Wait()
}
