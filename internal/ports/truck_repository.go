package ports

import (
	"context"
	"garage-spot-service/internal/domain"
)

// Port: a boundary for reading trucks and persisting their spots.
type TruckRepository interface {
	// Retrieve every truck known to the shop.
	ListTrucks(ctx context.Context) ([]*domain.Truck, error)
	// Persist a batch of spot moves atomically.
	UpdateSpots(ctx context.Context, changes []domain.SpotChange) error
}
