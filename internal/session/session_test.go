package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/edit"
	"github.com/kapu/astroweb-go/internal/normalize"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

func testLayout() domain.Layout {
	return normalize.Normalize(map[string]any{
		"branding": map[string]any{"logoText": "Iron Pulse"},
		"sections": []any{
			map[string]any{"type": "hero", "headline": "Lift heavy", "callToAction": "Join"},
			map[string]any{"type": "features", "features": []any{"Open 24/7"}},
		},
	})
}

func newTestSession() *Session {
	return NewManager(zap.NewNop()).Create("user-1", testLayout())
}

func TestBeginCommit(t *testing.T) {
	s := newTestSession()
	target := edit.SectionHeadline{Section: 0}

	original, err := s.Begin(target)
	require.NoError(t, err)
	assert.Equal(t, "Lift heavy", original)

	u, err := s.Commit("Lift heavier")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.Version)

	got, err := edit.Read(s.Layout(), target)
	require.NoError(t, err)
	assert.Equal(t, "Lift heavier", got)

	_, err = s.Commit("again")
	assert.ErrorIs(t, err, ErrNoPendingEdit)
}

func TestCancelRestoresOriginal(t *testing.T) {
	s := newTestSession()

	_, err := s.Begin(edit.BrandName{})
	require.NoError(t, err)

	original, ok := s.Cancel()
	assert.True(t, ok)
	assert.Equal(t, "Iron Pulse", original)
	assert.Equal(t, uint64(0), s.Version())

	_, ok = s.Cancel()
	assert.False(t, ok)
}

func TestCommitBlankLeavesLayout(t *testing.T) {
	s := newTestSession()
	before := s.Layout()

	_, err := s.Begin(edit.BrandName{})
	require.NoError(t, err)
	_, err = s.Commit("   ")
	assert.ErrorIs(t, err, edit.ErrEmptyValue)
	assert.Equal(t, before, s.Layout())
	assert.Equal(t, uint64(0), s.Version())

	_, err = s.Commit("Renamed")
	assert.ErrorIs(t, err, ErrNoPendingEdit)
}

func TestBeginUnresolved(t *testing.T) {
	s := newTestSession()
	_, err := s.Begin(edit.SectionHeadline{Section: 9})
	assert.ErrorIs(t, err, edit.ErrUnresolvedTarget)
}

func TestLayoutIsCopy(t *testing.T) {
	s := newTestSession()
	l := s.Layout()
	l.Branding.LogoText = "mutated"
	l.Sections[0].(*domain.HeroSection).Headline = "mutated"

	again := s.Layout()
	assert.Equal(t, "Iron Pulse", again.Branding.LogoText)
	assert.Equal(t, "Lift heavy", again.Sections[0].GetHeadline())
}

func TestSubscribersReceiveUpdates(t *testing.T) {
	s := newTestSession()
	ch, unsubscribe := s.Subscribe()

	_, err := s.Apply(edit.Edit{Target: edit.BrandName{}, Value: "Tide"})
	require.NoError(t, err)
	u := <-ch
	assert.Equal(t, uint64(1), u.Version)
	assert.Equal(t, "Tide", u.Layout.Branding.LogoText)

	replaced := testLayout()
	replaced.ThemeStyle = domain.ThemeStyleBold
	s.Replace(replaced)
	u = <-ch
	assert.Equal(t, uint64(2), u.Version)
	assert.Equal(t, domain.ThemeStyleBold, u.Layout.ThemeStyle)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestSlowSubscriberKeepsLatest(t *testing.T) {
	s := newTestSession()
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	for i := 0; i < 40; i++ {
		s.Replace(testLayout())
	}

	var last Update
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Equal(t, uint64(40), last.Version)
}

func TestGenerationGuard(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.TryStartGeneration())
	assert.True(t, s.Generating())

	err := s.TryStartGeneration()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGenerationInProgress))

	s.FinishGeneration()
	assert.NoError(t, s.TryStartGeneration())
}

func TestGenerationGuardConcurrent(t *testing.T) {
	s := newTestSession()

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryStartGeneration() == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)
}

func TestManagerOwnership(t *testing.T) {
	m := NewManager(zap.NewNop())
	s := m.Create("owner", testLayout())

	got, err := m.Get(s.ID(), "owner")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(s.ID(), "intruder")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = m.Get("missing", "owner")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestManagerSweep(t *testing.T) {
	m := NewManager(zap.NewNop())
	idle := m.Create("a", testLayout())
	watched := m.Create("b", testLayout())
	_, unsubscribe := watched.Subscribe()
	defer unsubscribe()

	closed := m.Sweep(time.Now().Add(3*time.Hour), 2*time.Hour)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, m.Len())

	_, err := m.Get(idle.ID(), "a")
	assert.Error(t, err)
	_, err = m.Get(watched.ID(), "b")
	assert.NoError(t, err)
}

func TestRemoveClosesSubscribers(t *testing.T) {
	m := NewManager(zap.NewNop())
	s := m.Create("a", testLayout())
	ch, unsubscribe := s.Subscribe()

	m.Remove(s.ID())
	_, open := <-ch
	assert.False(t, open)
	unsubscribe()
}
