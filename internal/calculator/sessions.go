package calculator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go-chi-calculator/internal/engine"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreFull       = errors.New("session limit reached")
)

// Store keeps calculator sessions in memory. Intents for one session are
// applied one at a time; different sessions proceed independently.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

type session struct {
	mu       sync.Mutex
	state    engine.State
	lastSeen atomic.Int64 // unix nanos
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// NewStore returns an empty store. A ttl of zero disables expiry and a
// maxSessions of zero disables the limit.
func NewStore(ttl time.Duration, maxSessions int) *Store {
	return &Store{
		sessions:    make(map[string]*session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

func (s *Store) Create() (string, engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return "", engine.State{}, ErrStoreFull
	}

	id := uuid.New().String()
	sess := &session{state: engine.New()}
	sess.touch(s.now())
	s.sessions[id] = sess

	return id, sess.state, nil
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (engine.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.touch(s.now())
	return sess.state, nil
}

// Apply runs fn against the session's current state and stores the result.
// When fn fails the stored state is left as it was.
func (s *Store) Apply(id string, fn func(engine.State) (engine.State, error)) (engine.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.touch(s.now())

	next, err := fn(sess.state)
	if err != nil {
		return sess.state, err
	}
	sess.state = next
	return next, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and reports how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := now.Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(s.now()); removed > 0 {
				logger.Info("expired calculator sessions",
					zap.Int("removed", removed),
					zap.Int("active", s.Len()),
				)
			}
		}
	}
}
