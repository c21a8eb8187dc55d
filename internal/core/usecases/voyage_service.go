package usecases

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
)

// VoyageService keeps the live voyage sessions, keyed by ID.
type VoyageService struct {
	cfg  SessionConfig
	deps VoyageDeps

	maxVoyages int           // 0 means unlimited
	idleTTL    time.Duration // 0 disables expiry

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a VoyageService.
type Option func(*VoyageService)

// WithMaxVoyages caps the number of open sessions.
func WithMaxVoyages(n int) Option {
	return func(s *VoyageService) { s.maxVoyages = n }
}

// WithIdleTTL expires sessions that have been idle for longer than d.
func WithIdleTTL(d time.Duration) Option {
	return func(s *VoyageService) { s.idleTTL = d }
}

// NewVoyageService creates an empty registry.
func NewVoyageService(cfg SessionConfig, deps VoyageDeps, opts ...Option) *VoyageService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &VoyageService{cfg: cfg, deps: deps, sessions: make(map[string]*Session)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create starts a new session in its reset state. When the registry is
// full, expired sessions are swept first; if it is still full Create
// returns ErrVoyageLimit.
func (s *VoyageService) Create(ctx context.Context) (*Session, error) {
	if s.full() {
		s.Sweep(ctx)
	}

	sess := NewSession(uuid.NewString(), s.cfg, s.deps)

	s.mu.Lock()
	if s.maxVoyages > 0 && len(s.sessions) >= s.maxVoyages {
		s.mu.Unlock()
		return nil, domain.ErrVoyageLimit
	}
	s.sessions[sess.ID()] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveVoyages.Set(float64(n))
	slog.InfoContext(ctx, "voyage created", "voyage", sess.ID())
	return sess, nil
}

func (s *VoyageService) full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxVoyages > 0 && len(s.sessions) >= s.maxVoyages
}

// Sweep removes sessions whose animation is idle and whose last change is
// older than the idle TTL. It returns the number removed.
func (s *VoyageService) Sweep(ctx context.Context) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.deps.Now().Add(-s.idleTTL)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Stepper().Stop()
		slog.InfoContext(ctx, "voyage expired", "voyage", sess.ID())
	}
	if len(expired) > 0 {
		metrics.ActiveVoyages.Set(float64(n))
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (s *VoyageService) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Get returns the session with the given ID.
func (s *VoyageService) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrVoyageNotFound
	}
	return sess, nil
}

// Delete resets the session, which stops its animation, and forgets it.
func (s *VoyageService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return domain.ErrVoyageNotFound
	}

	sess.Reset(ctx)
	metrics.ActiveVoyages.Set(float64(n))
	slog.InfoContext(ctx, "voyage deleted", "voyage", id)
	return nil
}

// List returns snapshots of every session ordered by ID.
func (s *VoyageService) List() []domain.VoyageSnapshot {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID() < sessions[j].ID() })
	out := make([]domain.VoyageSnapshot, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Snapshot())
	}
	return out
}

// Shutdown stops every running animation.
func (s *VoyageService) Shutdown() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		sess.Stepper().Stop()
	}
}
