package services

import (
	"context"
	"errors"
	"garage-spot-service/internal/adapters/cache"
	"garage-spot-service/internal/adapters/repositories"
	"garage-spot-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, trucks ...*domain.Truck) (*SessionManager, *repositories.MemoryTruckRepository, *cache.MemoryPendingStore) {
	t.Helper()
	repo := repositories.NewMemoryTruckRepository(trucks...)
	store := cache.NewMemoryPendingStore(0)
	m := NewSessionManager(domain.DefaultSite(), repo, store, nil)
	t.Cleanup(m.CloseAll)
	return m, repo, store
}

func TestSessionCreateDefaultsViewport(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager(t, truck("a", "B1_F1_V1", 6))

	s, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, DefaultViewport(), s.Viewport)

	snap, found, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "B1", snap.Garage)
	assert.Empty(t, snap.Changes)

	again, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestSessionRestoredFromStore(t *testing.T) {
	ctx := context.Background()
	m, repo, store := newTestManager(t, truck("a", "B1_F1_V1", 6), truck("b", "", 4))

	s, err := m.Create(ctx, Viewport{Scale: 10, PanelWidth: 400})
	require.NoError(t, err)
	require.NoError(t, s.DragStart(ctx, "b", Point{}))
	_, err = s.DragEnd(ctx, Point{X: 30, Y: 200}, false)
	require.NoError(t, err)
	require.NoError(t, s.SetGarage(ctx, "B1"))
	require.NoError(t, m.Persist(ctx, s))

	// A second manager over the same store stands in for a restart.
	other := NewSessionManager(domain.DefaultSite(), repo, store, nil)
	defer other.CloseAll()

	restored, err := other.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, Viewport{Scale: 10, PanelWidth: 400}, restored.Viewport)

	pending, err := restored.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B1_F1_V2", pending["b"].NewSpot)
}

func TestSessionCommitReachesRepository(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newTestManager(t, truck("a", "B1_F1_V1", 6))

	s, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)
	require.NoError(t, s.DragStart(ctx, "a", Point{}))
	_, err = s.DragEnd(ctx, Point{}, true)
	require.NoError(t, err)

	changes, err := s.Commit(ctx)
	require.NoError(t, err)
	assert.Len(t, changes, 1)

	trucks, err := repo.ListTrucks(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.YardSpot, trucks[0].SpotValue())
}

func TestSessionCloseAndMissing(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager(t, truck("a", "B1_F1_V1", 6))

	s, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)
	require.NoError(t, m.Close(ctx, s.ID))

	_, found, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(ctx, s.ID), ErrSessionNotFound)

	_, _, err = s.Layout(ctx)
	assert.ErrorIs(t, err, ErrControllerClosed)
}

func TestSessionCreateFailsWhenRepositoryDown(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.Err = errors.New("db down")

	_, err := m.Create(context.Background(), Viewport{})
	assert.ErrorIs(t, err, repo.Err)
}

func TestSessionEvictIdleKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	m, _, store := newTestManager(t, truck("a", "B1_F1_V1", 6))
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)
	busy, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)

	require.NoError(t, idle.DragStart(ctx, "a", Point{}))
	_, err = idle.DragEnd(ctx, Point{}, true)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = m.Get(ctx, busy.ID)
	require.NoError(t, err)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, m.EvictIdle(ctx, 30*time.Minute))
	assert.Equal(t, 1, m.Live())

	_, _, err = idle.Layout(ctx)
	assert.ErrorIs(t, err, ErrControllerClosed)

	snap, found, err := store.Load(ctx, idle.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, snap.Changes, 1)

	restored, err := m.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.NotSame(t, idle, restored)
	pending, err := restored.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.YardSpot, pending["a"].NewSpot)
	assert.Equal(t, 2, m.Live())
}

func TestSessionRunEvictorStopsWithContext(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, truck("a", "B1_F1_V1", 6))

	s, err := m.Create(ctx, Viewport{})
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- m.RunEvictor(runCtx, time.Millisecond, 0) }()

	require.Eventually(t, func() bool { return m.Live() == 0 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	_, _, err = s.Layout(ctx)
	assert.ErrorIs(t, err, ErrControllerClosed)
}
