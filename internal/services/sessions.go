package services

import (
	"context"
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"garage-spot-service/internal/platform/obs"
	"garage-spot-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one screen's drag-and-drop view over the site.
type Session struct {
	ID       string
	Viewport Viewport
	*Controller

	lastUsed time.Time // guarded by SessionManager.mu
}

// SessionManager owns the live sessions and mirrors their overlays into a
// PendingStore so a session can be rebuilt after a restart.
type SessionManager struct {
	Site     domain.SiteConfig
	Settings DragSettings
	Repo     ports.TruckRepository
	Store    ports.PendingStore
	Logger   *zap.Logger
	After    AfterFunc

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionManager(
	site domain.SiteConfig,
	repo ports.TruckRepository,
	store ports.PendingStore,
	logger *zap.Logger,
) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		Site:     site,
		Settings: DefaultDragSettings(),
		Repo:     repo,
		Store:    store,
		Logger:   logger,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *SessionManager) open(ctx context.Context, id string, viewport Viewport) (*Session, error) {
	if viewport.Scale <= 0 || viewport.PanelWidth <= 0 {
		viewport = DefaultViewport()
	}

	trucks, err := m.Repo.ListTrucks(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: list trucks: %w", err)
	}

	board := NewBoard(m.Site, m.Settings, viewport, trucks)
	ctrl := NewController(board, Callbacks{
		OnSaveChanges: m.Repo.UpdateSpots,
		OnRefresh:     m.Repo.ListTrucks,
	}, WithLogger(m.Logger.With(zap.String("session_id", id))), WithAfterFunc(m.After))

	return &Session{ID: id, Viewport: viewport, Controller: ctrl}, nil
}

// Create opens a new session over the current truck list.
func (m *SessionManager) Create(ctx context.Context, viewport Viewport) (_ *Session, err error) {
	defer obs.Time(ctx, "sessions.Create")(&err)

	s, err := m.open(ctx, uuid.NewString(), viewport)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	s.lastUsed = m.now()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if err := m.Persist(ctx, s); err != nil {
		_ = m.Close(ctx, s.ID)
		return nil, err
	}
	return s, nil
}

// Get returns a live session, rebuilding it from the store when needed.
func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.lastUsed = m.now()
	}
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	snap, found, err := m.Store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: load snapshot: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}

	s, err = m.open(ctx, id, Viewport{Scale: snap.Scale, PanelWidth: snap.PanelWidth})
	if err != nil {
		return nil, err
	}
	if err := s.Restore(ctx, snap.Changes); err != nil {
		s.Controller.Close()
		return nil, fmt.Errorf("get session %s: restore: %w", id, err)
	}
	if snap.Garage != "" {
		if err := s.SetGarage(ctx, snap.Garage); err != nil {
			m.Logger.Warn("restored session names unknown garage", zap.String("session_id", id), zap.Error(err))
		}
	}

	m.mu.Lock()
	if existing, raced := m.sessions[id]; raced {
		existing.lastUsed = m.now()
		m.mu.Unlock()
		s.Controller.Close()
		return existing, nil
	}
	s.lastUsed = m.now()
	m.sessions[id] = s
	m.mu.Unlock()

	m.Logger.Info("session restored", zap.String("session_id", id), zap.Int("pending", len(snap.Changes)))
	return s, nil
}

// Persist snapshots the session's overlay into the store.
func (m *SessionManager) Persist(ctx context.Context, s *Session) error {
	pending, err := s.Pending(ctx)
	if err != nil {
		return fmt.Errorf("persist session %s: %w", s.ID, err)
	}
	_, garage, err := s.Layout(ctx)
	if err != nil {
		return fmt.Errorf("persist session %s: %w", s.ID, err)
	}

	snap := ports.SessionSnapshot{
		Garage:     garage,
		Scale:      s.Viewport.Scale,
		PanelWidth: s.Viewport.PanelWidth,
		Changes:    pending.List(),
	}
	if err := m.Store.Save(ctx, s.ID, snap); err != nil {
		return fmt.Errorf("persist session %s: %w", s.ID, err)
	}
	return nil
}

// Close tears the session down and forgets its snapshot.
func (m *SessionManager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Controller.Close()
	} else {
		_, found, err := m.Store.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("close session %s: load snapshot: %w", id, err)
		}
		if !found {
			return fmt.Errorf("close session %s: %w", id, ErrSessionNotFound)
		}
	}

	if err := m.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}

// CloseAll stops every live session without touching the store.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Controller.Close()
	}
}

// Live reports how many sessions are held in memory.
func (m *SessionManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle stops live sessions not used for longer than idle. Each overlay is
// snapshotted first so a later Get rebuilds the session from the store.
func (m *SessionManager) EvictIdle(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		if err := m.Persist(ctx, s); err != nil {
			m.Logger.Warn("snapshot before eviction failed", zap.String("session_id", s.ID), zap.Error(err))
		}
		s.Controller.Close()
	}
	if len(stale) > 0 {
		m.Logger.Info("idle sessions evicted", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunEvictor calls EvictIdle every interval until ctx is done.
func (m *SessionManager) RunEvictor(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.EvictIdle(ctx, idle)
		}
	}
}
