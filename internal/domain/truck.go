package domain

import (
	"fmt"
	"strings"
)

// Truck record as owned by the production backend.
// Only Spot is ever changed by this service; everything else is read-only.
type Truck struct {
	TruckID    string
	Name       string
	Color      string
	Serial     string
	Spot       *string
	Length     float64
	FullLength *float64
}

// EffectiveLength is the length used for placement and spacing.
// The overall length (cabin included) supersedes the cargo length when known.
func (t *Truck) EffectiveLength() float64 {
	if t.FullLength != nil && *t.FullLength > 0 {
		return *t.FullLength
	}
	return t.Length
}

// Address decodes the truck's current spot.
func (t *Truck) Address() SpotAddress {
	return ParseSpot(t.Spot)
}

// SpotValue returns the stored spot, or the yard sentinel when unset.
func (t *Truck) SpotValue() string {
	if t.Spot == nil {
		return YardSpot
	}
	return *t.Spot
}

// WithSpot returns a copy of the truck parked at spot.
func (t *Truck) WithSpot(spot string) *Truck {
	c := *t
	c.Spot = &spot
	return &c
}

// Validate checks the invariants the layout math relies on.
func (t *Truck) Validate() error {
	if strings.TrimSpace(t.TruckID) == "" {
		return fmt.Errorf("validate truck: id must not be empty")
	}
	if t.Length <= 0 {
		return fmt.Errorf("validate truck %s: length must be positive, got %v", t.TruckID, t.Length)
	}
	if t.FullLength != nil && *t.FullLength < 0 {
		return fmt.Errorf("validate truck %s: full length must not be negative, got %v", t.TruckID, *t.FullLength)
	}
	return nil
}

// Index trucks by id. Later duplicates win.
func TrucksByID(trucks []*Truck) map[string]*Truck {
	out := make(map[string]*Truck, len(trucks))
	for _, t := range trucks {
		out[t.TruckID] = t
	}
	return out
}
