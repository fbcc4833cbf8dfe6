package generation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/service/ai"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

type scriptedReply struct {
	text string
	err  error
}

// scriptedGenerator answers layout calls and logo calls from separate queues.
type scriptedGenerator struct {
	mu       sync.Mutex
	layouts  []scriptedReply
	logos    []scriptedReply
	requests []ai.Request
}

func (g *scriptedGenerator) GenerateText(_ context.Context, req ai.Request) (string, *ai.GenerateMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)

	queue := &g.layouts
	if req.Preset == ai.PresetPrecise {
		queue = &g.logos
	}
	if len(*queue) == 0 {
		return "", nil, fmt.Errorf("no scripted reply for %s call", req.Preset)
	}
	reply := (*queue)[0]
	*queue = (*queue)[1:]
	if reply.err != nil {
		return "", nil, reply.err
	}
	return reply.text, &ai.GenerateMetadata{Provider: "scripted", Model: "test"}, nil
}

func (g *scriptedGenerator) calls(preset ai.ModelPreset) []ai.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []ai.Request
	for _, r := range g.requests {
		if r.Preset == preset {
			out = append(out, r)
		}
	}
	return out
}

type memoryAllowance struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newMemoryAllowance(balances map[string]int64) *memoryAllowance {
	return &memoryAllowance{balances: balances}
}

func (a *memoryAllowance) GetBalance(_ context.Context, identity string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balances[identity], nil
}

func (a *memoryAllowance) Decrement(_ context.Context, identity string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.balances[identity] < 1 {
		return 0, apperrors.NewInsufficientAllowance(identity, a.balances[identity])
	}
	a.balances[identity]--
	return a.balances[identity], nil
}

func (a *memoryAllowance) Increment(_ context.Context, identity string, amount int64) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances[identity] += amount
	return a.balances[identity], nil
}

type memoryRecords struct {
	mu      sync.Mutex
	byID    map[string]*domain.Generation
	nextID  int
	fail    error
	updates int
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{byID: map[string]*domain.Generation{}}
}

func (m *memoryRecords) Create(_ context.Context, ownerID, prompt string, layout domain.Layout) (domain.RecordRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.RecordRef{}, m.fail
	}
	m.nextID++
	ref := domain.RecordRef{ID: fmt.Sprintf("gen-%d", m.nextID), ShareToken: fmt.Sprintf("share-%d", m.nextID)}
	now := time.Date(2026, 1, 1, 0, 0, m.nextID, 0, time.UTC)
	m.byID[ref.ID] = &domain.Generation{
		ID: ref.ID, OwnerID: ownerID, Prompt: prompt, Layout: layout.Clone(),
		ShareToken: ref.ShareToken, SiteName: layout.SiteName(), ThemeStyle: layout.ThemeStyle,
		CreatedAt: now, UpdatedAt: now,
	}
	return ref, nil
}

func (m *memoryRecords) owned(id, ownerID string) (*domain.Generation, error) {
	g, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("generation", id)
	}
	if g.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("generation", id)
	}
	return g, nil
}

func (m *memoryRecords) Update(_ context.Context, id, ownerID string, layout domain.Layout, prompt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.owned(id, ownerID)
	if err != nil {
		return err
	}
	if m.fail != nil {
		return m.fail
	}
	m.updates++
	g.Layout = layout.Clone()
	g.SiteName = layout.SiteName()
	if prompt != "" {
		g.Prompt = prompt
	}
	return nil
}

func (m *memoryRecords) ListByOwner(_ context.Context, ownerID string) ([]domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Generation
	for i := m.nextID; i >= 1; i-- {
		if g, ok := m.byID[fmt.Sprintf("gen-%d", i)]; ok && g.OwnerID == ownerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memoryRecords) Get(_ context.Context, id, ownerID string) (*domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	cp := *g
	cp.Layout = g.Layout.Clone()
	return &cp, nil
}

func (m *memoryRecords) GetByShareToken(_ context.Context, token string) (*domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.byID {
		if g.ShareToken == token {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryRecords) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(id, ownerID); err != nil {
		return err
	}
	delete(m.byID, id)
	return nil
}

type stubImages struct {
	url     string
	err     error
	queries []string
}

func (s *stubImages) FindImage(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.url, s.err
}

type memoryShares struct {
	sites       map[string]*domain.SharedSite
	invalidated []string
}

func (s *memoryShares) Get(_ context.Context, token string) (*domain.SharedSite, bool) {
	site, ok := s.sites[token]
	return site, ok
}

func (s *memoryShares) Set(_ context.Context, site *domain.SharedSite) {
	s.sites[site.ShareToken] = site
}

func (s *memoryShares) Invalidate(_ context.Context, token string) {
	s.invalidated = append(s.invalidated, token)
	delete(s.sites, token)
}
