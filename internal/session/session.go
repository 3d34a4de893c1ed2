// Package session tracks the authenticated user for the dashboard. The
// auth provider owns the session; this package only resolves it, watches
// it for changes and exposes {user, loading} to the rest of the app.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

// Provider resolves the current session with the external auth service.
// A nil user with a nil error means "signed out".
type Provider interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Snapshot is the only view downstream consumers get of the session:
// exactly one of loading, signed out (nil user), or signed in.
type Snapshot struct {
	User    *models.User
	Loading bool
}

// Store holds the session snapshot and notifies subscribers on change.
type Store struct {
	mu       sync.RWMutex
	user     *models.User
	loading  bool
	subs     []chan Snapshot
	provider Provider
	logger   *zap.Logger
	interval time.Duration
}

func NewStore(provider Provider, logger *zap.Logger) *Store {
	return &Store{
		provider: provider,
		logger:   logger,
		loading:  true,
		interval: 30 * time.Second,
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{User: s.user, Loading: s.loading}
}

// Subscribe returns a channel receiving a snapshot after every change.
// Slow subscribers drop intermediate snapshots rather than block.
func (s *Store) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Resolve performs the initial session check. Loading always clears,
// even when the provider call fails: a failed check is treated as
// signed out, never as a hang.
func (s *Store) Resolve(ctx context.Context) Snapshot {
	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("session resolution failed, treating as signed out", zap.Error(err))
		user = nil
	}
	s.set(user, false)
	return s.Snapshot()
}

// Watch polls the provider for session changes until ctx is done. The
// hosted product gets push events from the auth SDK; a poll at a modest
// interval gives the same observable contract here.
func (s *Store) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			user, err := s.provider.CurrentUser(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debug("session poll failed", zap.Error(err))
				continue
			}
			s.set(user, false)
		}
	}
}

func (s *Store) set(user *models.User, loading bool) {
	s.mu.Lock()
	changed := loading != s.loading || !sameUser(user, s.user)
	s.user = user
	s.loading = loading
	snap := Snapshot{User: user, Loading: loading}
	subs := s.subs
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
