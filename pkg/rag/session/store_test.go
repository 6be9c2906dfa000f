package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docs-assistant-be/pkg/llm"
)

// fakeProvider blocks on demand so tests can hold a send in flight.
type fakeProvider struct {
	mu        sync.Mutex
	response  string
	err       error
	block     chan struct{} // when set, Generate waits on it
	calls     int
	forgotten []string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, "", opts...)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	response, err := f.response, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return response, err
}

func (f *fakeProvider) Forget(id string) {
	f.mu.Lock()
	f.forgotten = append(f.forgotten, id)
	f.mu.Unlock()
}

func newTestStore(t *testing.T, provider llm.Provider, cfg Config) *Store {
	t.Helper()
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Hour // keep the background sweep out of the way
	}
	s := NewStore(provider, cfg)
	t.Cleanup(s.DestroyAll)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t, &fakeProvider{response: "ok"}, Config{MaxSessions: 3})

	sess, err := s.Create()
	assert.NoError(t, err)
	assert.Len(t, sess.Id, 32)
	assert.Equal(t, 0, sess.TurnCount)
	assert.False(t, sess.Busy())

	got, ok := s.Get(sess.Id)
	assert.True(t, ok)
	assert.Equal(t, sess.Id, got.Id)

	_, ok = s.Get("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.False(t, ok)
}

func TestSend(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		s := newTestStore(t, &fakeProvider{response: "ok"}, Config{})
		_, err := s.Send(context.Background(), "nope", "prompt")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success advances turn count and last used", func(t *testing.T) {
		s := newTestStore(t, &fakeProvider{response: "answer"}, Config{})

		base := time.Now()
		clock := base
		s.now = func() time.Time { return clock }

		sess, err := s.Create()
		assert.NoError(t, err)

		clock = base.Add(time.Minute)
		out, err := s.Send(context.Background(), sess.Id, "prompt")
		assert.NoError(t, err)
		assert.Equal(t, "answer", out)

		got, _ := s.Get(sess.Id)
		assert.Equal(t, 1, got.TurnCount)
		assert.Equal(t, clock, got.LastUsedAt)
		assert.False(t, got.Busy())
	})

	t.Run("concurrent send is rejected busy", func(t *testing.T) {
		block := make(chan struct{})
		provider := &fakeProvider{response: "slow", block: block}
		s := newTestStore(t, provider, Config{})

		sess, err := s.Create()
		assert.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			_, err := s.Send(context.Background(), sess.Id, "first")
			done <- err
		}()

		// Wait until the first send marks the session busy.
		assert.Eventually(t, func() bool {
			got, _ := s.Get(sess.Id)
			return got.Busy()
		}, time.Second, time.Millisecond)

		_, err = s.Send(context.Background(), sess.Id, "second")
		assert.ErrorIs(t, err, ErrBusy)

		close(block)
		assert.NoError(t, <-done)

		// After the first send resolves the session accepts sends again.
		_, err = s.Send(context.Background(), sess.Id, "third")
		assert.NoError(t, err)
	})

	t.Run("failure releases busy and does not advance state", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("model down")}
		s := newTestStore(t, provider, Config{})

		sess, _ := s.Create()
		before, _ := s.Get(sess.Id)

		_, err := s.Send(context.Background(), sess.Id, "prompt")
		assert.Error(t, err)

		after, _ := s.Get(sess.Id)
		assert.False(t, after.Busy())
		assert.Equal(t, 0, after.TurnCount)
		assert.Equal(t, before.LastUsedAt, after.LastUsedAt)
	})
}

func TestCapacity(t *testing.T) {
	t.Run("evicts oldest idle at capacity", func(t *testing.T) {
		s := newTestStore(t, &fakeProvider{response: "ok"}, Config{MaxSessions: 2})

		base := time.Now()
		clock := base
		s.now = func() time.Time { return clock }

		oldest, _ := s.Create()
		clock = base.Add(time.Minute)
		newer, _ := s.Create()

		clock = base.Add(2 * time.Minute)
		third, err := s.Create()
		assert.NoError(t, err)
		assert.Equal(t, 2, s.Len())

		_, ok := s.Get(oldest.Id)
		assert.False(t, ok, "oldest idle session should have been evicted")
		_, ok = s.Get(newer.Id)
		assert.True(t, ok)
		_, ok = s.Get(third.Id)
		assert.True(t, ok)
	})

	t.Run("all busy fails with capacity error", func(t *testing.T) {
		block := make(chan struct{})
		provider := &fakeProvider{response: "ok", block: block}
		s := newTestStore(t, provider, Config{MaxSessions: 1})

		sess, _ := s.Create()

		done := make(chan struct{})
		go func() {
			s.Send(context.Background(), sess.Id, "prompt")
			close(done)
		}()
		assert.Eventually(t, func() bool {
			got, _ := s.Get(sess.Id)
			return got.Busy()
		}, time.Second, time.Millisecond)

		_, err := s.Create()
		assert.ErrorIs(t, err, ErrCapacity)

		close(block)
		<-done
	})
}

func TestDestroy(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	s := newTestStore(t, provider, Config{})

	sess, _ := s.Create()
	assert.True(t, s.Destroy(sess.Id))
	assert.False(t, s.Destroy(sess.Id), "second destroy reports non-existence")
	assert.Equal(t, 0, s.Len())

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Contains(t, provider.forgotten, sess.Id, "provider transcript should be dropped")
}

func TestSweep(t *testing.T) {
	provider := &fakeProvider{response: "ok", block: make(chan struct{})}
	s := newTestStore(t, provider, Config{IdleTimeout: 10 * time.Minute, MaxSessions: 5})

	base := time.Now()
	clock := base
	s.now = func() time.Time { return clock }

	stale, _ := s.Create()
	busy, _ := s.Create()
	go s.Send(context.Background(), busy.Id, "prompt")
	assert.Eventually(t, func() bool {
		got, _ := s.Get(busy.Id)
		return got.Busy()
	}, time.Second, time.Millisecond)

	clock = base.Add(9 * time.Minute)
	fresh, _ := s.Create()

	clock = base.Add(11 * time.Minute)
	s.sweep()

	_, ok := s.Get(stale.Id)
	assert.False(t, ok, "stale session should be swept")
	_, ok = s.Get(fresh.Id)
	assert.True(t, ok, "recently used session stays")
	_, ok = s.Get(busy.Id)
	assert.True(t, ok, "busy session is never swept")

	close(provider.block)
}
