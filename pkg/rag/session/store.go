package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"docs-assistant-be/pkg/llm"
)

var (
	// ErrNotFound means the session id does not resolve to a live session.
	ErrNotFound = errors.New("session not found")
	// ErrBusy means another send is in flight on the session. There is no
	// queueing: the caller retries or treats it as an error.
	ErrBusy = errors.New("session is busy")
	// ErrCapacity means the store is full and every session is busy, so
	// nothing can be evicted.
	ErrCapacity = errors.New("session capacity exhausted")
)

const (
	DefaultMaxSessions   = 5
	DefaultIdleTimeout   = 10 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Session is one server-side conversation. The store owns all Session
// values; callers only ever see copies.
type Session struct {
	Id         string
	TurnCount  int
	CreatedAt  time.Time
	LastUsedAt time.Time

	busy bool
}

// Busy reports whether a send is currently in flight.
func (s Session) Busy() bool {
	return s.busy
}

// Config bounds the store. Zero values fall back to the defaults above.
type Config struct {
	MaxSessions   int
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// Store is a bounded collection of conversation sessions. Creation evicts the
// least-recently-used idle session at capacity, sends are mutually exclusive
// per session via the busy flag, and a background sweep removes idle sessions.
type Store struct {
	provider llm.Provider
	cfg      Config

	mu       sync.Mutex
	sessions map[string]*Session

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewStore(provider llm.Provider, cfg Config) *Store {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	s := &Store{
		provider: provider,
		cfg:      cfg,
		sessions: make(map[string]*Session),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Create allocates a fresh session. At capacity it evicts the
// least-recently-used idle session; if every session is busy it fails with
// ErrCapacity instead.
func (s *Store) Create() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.cfg.MaxSessions {
		if !s.evictOldestIdleLocked() {
			return Session{}, ErrCapacity
		}
	}

	now := s.now()
	sess := &Session{
		Id:         newSessionId(),
		CreatedAt:  now,
		LastUsedAt: now,
	}
	s.sessions[sess.Id] = sess
	return *sess, nil
}

// Get is a pure lookup with no side effects.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Send runs one turn on the session. It rejects unknown ids with ErrNotFound
// and in-flight sessions with ErrBusy. The busy flag is released whether the
// provider call succeeds or fails; turn count and last-used time advance only
// on success.
func (s *Store) Send(ctx context.Context, id string, prompt string, opts ...llm.Option) (string, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return "", ErrNotFound
	}
	if sess.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	sess.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		sess.busy = false
		s.mu.Unlock()
	}()

	opts = append(opts, llm.WithConversation(id))
	response, err := s.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	sess.TurnCount++
	sess.LastUsedAt = s.now()
	s.mu.Unlock()
	return response, nil
}

// Destroy removes the session and reports whether it existed.
func (s *Store) Destroy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	if ok {
		s.forgetConversation(id)
	}
	return ok
}

// DestroyAll clears every session and stops the idle sweep. Used at shutdown.
func (s *Store) DestroyAll() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	for id := range s.sessions {
		s.forgetConversation(id)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
}

// Len returns the current session count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictOldestIdleLocked removes the idle session with the oldest LastUsedAt.
// Returns false when every session is busy. Caller holds the lock.
func (s *Store) evictOldestIdleLocked() bool {
	var victim *Session
	for _, sess := range s.sessions {
		if sess.busy {
			continue
		}
		if victim == nil || sess.LastUsedAt.Before(victim.LastUsedAt) {
			victim = sess
		}
	}
	if victim == nil {
		return false
	}
	delete(s.sessions, victim.Id)
	s.forgetConversation(victim.Id)
	return true
}

// forgetConversation drops any provider-side transcript kept for the session.
func (s *Store) forgetConversation(id string) {
	if f, ok := s.provider.(interface{ Forget(string) }); ok {
		f.Forget(id)
	}
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes sessions idle past the timeout. Busy sessions are never swept.
func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.cfg.IdleTimeout)
	for id, sess := range s.sessions {
		if sess.busy {
			continue
		}
		if sess.LastUsedAt.Before(cutoff) {
			delete(s.sessions, id)
			s.forgetConversation(id)
		}
	}
}

// newSessionId returns a 32-character hex id. Collisions are treated as
// negligible; no check is performed.
func newSessionId() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
