package repositories

import (
	"context"
	"fmt"
	"garage-spot-service/internal/domain"
	"slices"
	"strings"
	"sync"
)

// In-memory TruckRepository for tests and database-less runs.
type MemoryTruckRepository struct {
	mu     sync.Mutex
	trucks map[string]*domain.Truck

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryTruckRepository(trucks ...*domain.Truck) *MemoryTruckRepository {
	r := &MemoryTruckRepository{trucks: make(map[string]*domain.Truck, len(trucks))}
	for _, t := range trucks {
		c := *t
		r.trucks[t.TruckID] = &c
	}
	return r
}

func (r *MemoryTruckRepository) ListTrucks(context.Context) ([]*domain.Truck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	out := make([]*domain.Truck, 0, len(r.trucks))
	for _, t := range r.trucks {
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.Truck) int { return strings.Compare(a.TruckID, b.TruckID) })
	return out, nil
}

func (r *MemoryTruckRepository) UpdateSpots(_ context.Context, changes []domain.SpotChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	for _, c := range changes {
		if _, ok := r.trucks[c.TruckID]; !ok {
			return fmt.Errorf("update spots truck_id=%s: %w", c.TruckID, ErrUnknownTruck)
		}
	}
	for _, c := range changes {
		r.trucks[c.TruckID] = r.trucks[c.TruckID].WithSpot(c.NewSpot)
	}
	return nil
}
