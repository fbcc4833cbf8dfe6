// Package session holds the live layout being edited in one browser tab.
// A Session is the single writer of its layout: inline edits and completed
// generations both go through it, and subscribers see every new version.
package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/edit"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

// ErrNoPendingEdit is returned by Commit when Begin was not called first.
var ErrNoPendingEdit = errors.New("no edit in progress")

// Update is published to subscribers after every write.
type Update struct {
	Version uint64        `json:"version"`
	Layout  domain.Layout `json:"layout"`
}

type pendingEdit struct {
	target   edit.Target
	original string
}

type Session struct {
	id       string
	ownerID  string
	logger   *zap.Logger
	mu       sync.Mutex
	layout   domain.Layout
	version  uint64
	recordID string
	prompt   string

	pending    *pendingEdit
	generating bool
	lastActive time.Time

	subs    map[int]chan Update
	nextSub int
}

func newSession(id, ownerID string, l domain.Layout, logger *zap.Logger) *Session {
	return &Session{
		id:         id,
		ownerID:    ownerID,
		logger:     logger,
		layout:     l.Clone(),
		lastActive: time.Now(),
		subs:       make(map[int]chan Update),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) OwnerID() string { return s.ownerID }

// Layout returns a copy of the current layout.
func (s *Session) Layout() domain.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Record returns the stored generation backing this session, if any.
func (s *Session) Record() (recordID, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID, s.prompt
}

func (s *Session) SetRecord(recordID, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordID = recordID
	s.prompt = prompt
}

// Begin starts an inline edit of t and returns the text it will be restored
// to on Cancel.
func (s *Session) Begin(t edit.Target) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, err := edit.Read(s.layout, t)
	if err != nil {
		return "", err
	}
	s.pending = &pendingEdit{target: t, original: original}
	s.lastActive = time.Now()
	return original, nil
}

// Cancel abandons the pending edit and returns the original text.
func (s *Session) Cancel() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return "", false
	}
	original := s.pending.original
	s.pending = nil
	return original, true
}

// Commit applies value to the pending edit's target and clears the pending
// edit. A blank value returns edit.ErrEmptyValue and leaves the layout
// untouched.
func (s *Session) Commit(value string) (Update, error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending == nil {
		return Update{}, ErrNoPendingEdit
	}
	return s.Apply(edit.Edit{Target: pending.target, Value: value})
}

// Apply commits e directly, without a Begin.
func (s *Session) Apply(e edit.Edit) (Update, error) {
	s.mu.Lock()
	next, err := edit.Apply(s.layout, e)
	if err != nil {
		s.mu.Unlock()
		return Update{}, err
	}
	u := s.writeLocked(next)
	s.mu.Unlock()

	s.logger.Debug("Inline edit committed",
		zap.String("session", s.id),
		zap.String("target", e.Target.Path()),
		zap.Uint64("version", u.Version),
	)
	return u, nil
}

// Replace swaps in a whole new layout, typically a generation result.
func (s *Session) Replace(l domain.Layout) Update {
	s.mu.Lock()
	s.pending = nil
	u := s.writeLocked(l.Clone())
	s.mu.Unlock()
	return u
}

func (s *Session) writeLocked(l domain.Layout) Update {
	s.layout = l
	s.version++
	s.lastActive = time.Now()
	u := Update{Version: s.version, Layout: l.Clone()}
	for _, ch := range s.subs {
		publish(ch, u)
	}
	return u
}

// publish never blocks: a slow subscriber loses its oldest queued update.
func publish(ch chan Update, u Update) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe registers for updates. The returned func unsubscribes and closes
// the channel.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, constants.WebSocketConfig.SendBufferSize)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// TryStartGeneration marks a generation as in flight. Only one may run per
// session at a time.
func (s *Session) TryStartGeneration() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return apperrors.NewGenerationInProgress(s.id)
	}
	s.generating = true
	s.lastActive = time.Now()
	return nil
}

func (s *Session) FinishGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating || len(s.subs) > 0 {
		return 0
	}
	return now.Sub(s.lastActive)
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
