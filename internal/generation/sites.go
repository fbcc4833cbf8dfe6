package generation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/export"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/pkg/errors"
)

// Sites manages stored generations on behalf of their owners and serves
// public share lookups.
type Sites struct {
	records RecordStore
	shares  ShareCache
	logger  *zap.Logger
	now     func() time.Time
}

// NewSites accepts a nil shares cache; share lookups then always hit the store.
func NewSites(records RecordStore, shares ShareCache, logger *zap.Logger) *Sites {
	return &Sites{
		records: records,
		shares:  shares,
		logger:  logger,
		now:     time.Now,
	}
}

// Download is an exported static page.
type Download struct {
	FileName string
	HTML     string
}

func requireIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return errors.NewUnauthorized("missing identity")
	}
	return nil
}

// Save stores a layout produced elsewhere (e.g. after inline edits).
// The layout is renormalized before it is written.
func (s *Sites) Save(ctx context.Context, identity, prompt string, layout domain.Layout) (domain.RecordRef, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.RecordRef{}, err
	}
	return s.records.Create(ctx, identity, strings.TrimSpace(prompt), renormalize(layout))
}

// Update replaces a stored layout and drops any cached share view of it.
func (s *Sites) Update(ctx context.Context, identity, id string, layout domain.Layout, prompt string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	existing, err := s.records.Get(ctx, id, identity)
	if err != nil {
		return err
	}
	if err := s.records.Update(ctx, id, identity, renormalize(layout), strings.TrimSpace(prompt)); err != nil {
		return err
	}
	s.invalidate(ctx, existing.ShareToken)
	return nil
}

func (s *Sites) List(ctx context.Context, identity string) ([]domain.GenerationSummary, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	list, err := s.records.ListByOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make([]domain.GenerationSummary, len(list))
	for i := range list {
		out[i] = list[i].Summary()
	}
	return out, nil
}

func (s *Sites) Get(ctx context.Context, identity, id string) (*domain.Generation, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return s.records.Get(ctx, id, identity)
}

// ShareToken returns the public handle of an owned generation.
func (s *Sites) ShareToken(ctx context.Context, identity, id string) (string, error) {
	g, err := s.Get(ctx, identity, id)
	if err != nil {
		return "", err
	}
	return g.ShareToken, nil
}

// Share resolves a public share token without any identity.
func (s *Sites) Share(ctx context.Context, token string) (*domain.SharedSite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.NewNotFound("share", token)
	}

	if s.shares != nil {
		if site, ok := s.shares.Get(ctx, token); ok {
			return site, nil
		}
	}

	g, err := s.records.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.NewNotFound("share", token)
	}

	site := &domain.SharedSite{
		ShareToken: g.ShareToken,
		Prompt:     g.Prompt,
		Layout:     g.Layout,
		CreatedAt:  g.CreatedAt,
	}
	if s.shares != nil {
		s.shares.Set(ctx, site)
	}
	return site, nil
}

func (s *Sites) Delete(ctx context.Context, identity, id string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	existing, err := s.records.Get(ctx, id, identity)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, id, identity); err != nil {
		return err
	}
	s.invalidate(ctx, existing.ShareToken)
	return nil
}

// Export renders an owned generation as a standalone HTML download.
func (s *Sites) Export(ctx context.Context, identity, id string) (Download, error) {
	g, err := s.Get(ctx, identity, id)
	if err != nil {
		return Download{}, err
	}
	return Download{
		FileName: export.FileName(g.Layout),
		HTML:     export.Render(g.Layout, export.Options{Year: s.now().Year()}),
	}, nil
}

func (s *Sites) invalidate(ctx context.Context, token string) {
	if s.shares != nil {
		s.shares.Invalidate(ctx, token)
	}
}

// renormalize round-trips a layout through JSON so client-supplied values get the same defaults as model output.
func renormalize(l domain.Layout) domain.Layout {
	return normalize.Normalize(l)
}
