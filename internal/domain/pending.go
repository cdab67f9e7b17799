package domain

import (
	"maps"
	"slices"
)

// Speculative, uncommitted reassignment of one truck.
type PendingChange struct {
	TruckID      string `json:"truck_id"`
	OriginalSpot string `json:"original_spot"`
	NewSpot      string `json:"new_spot"`
}

// The payload handed to the save port.
type SpotChange struct {
	TruckID string `json:"truck_id"`
	NewSpot string `json:"new_spot"`
}

// PendingChanges is an overlay on top of the immutable base truck list, keyed by truck id.
type PendingChanges map[string]PendingChange

// SameSpot compares two stored spot values by meaning: every unassigned form is the yard.
func SameSpot(a, b string) bool {
	pa, pb := ParseSpotString(a), ParseSpotString(b)
	if !pa.Assigned() || !pb.Assigned() {
		return pa.Assigned() == pb.Assigned()
	}
	return pa.String() == pb.String()
}

// Record moves truckID to newSpot. original is the truck's base spot; an existing
// entry keeps the original it was created with. Moving back to the original removes
// the entry instead, so a round trip leaves no trace.
func (p PendingChanges) Record(truckID, original, newSpot string) {
	if existing, ok := p[truckID]; ok {
		original = existing.OriginalSpot
	}
	if SameSpot(original, newSpot) {
		delete(p, truckID)
		return
	}
	p[truckID] = PendingChange{TruckID: truckID, OriginalSpot: original, NewSpot: newSpot}
}

// Has reports whether truckID has a pending change.
func (p PendingChanges) Has(truckID string) bool {
	_, ok := p[truckID]
	return ok
}

// Clear drops every entry.
func (p PendingChanges) Clear() {
	clear(p)
}

func (p PendingChanges) Clone() PendingChanges {
	return maps.Clone(p)
}

// Changes lists the overlay as save payload, ordered by truck id.
func (p PendingChanges) Changes() []SpotChange {
	ids := slices.Sorted(maps.Keys(p))
	out := make([]SpotChange, 0, len(ids))
	for _, id := range ids {
		out = append(out, SpotChange{TruckID: id, NewSpot: p[id].NewSpot})
	}
	return out
}

// List returns the entries ordered by truck id.
func (p PendingChanges) List() []PendingChange {
	ids := slices.Sorted(maps.Keys(p))
	out := make([]PendingChange, 0, len(ids))
	for _, id := range ids {
		out = append(out, p[id])
	}
	return out
}

// Apply returns the truck list with the overlay applied. The input is not modified;
// changed trucks are copies.
func (p PendingChanges) Apply(trucks []*Truck) []*Truck {
	out := make([]*Truck, 0, len(trucks))
	for _, t := range trucks {
		if c, ok := p[t.TruckID]; ok {
			out = append(out, t.WithSpot(c.NewSpot))
			continue
		}
		out = append(out, t)
	}
	return out
}
