package services

import (
	"cmp"
	"garage-spot-service/internal/domain"
	"slices"
)

// MergeLayout builds the layout to render while pending changes exist.
//
// Garage lanes blend two passes: trucks without a pending change keep their
// position from the base layout, trucks with one take their position from a
// layout recomputed with the overlay applied. The yard is always taken whole from
// the recomputed pass, since its packing order depends on every yard truck.
func MergeLayout(site domain.SiteConfig, base []*domain.Truck, pending domain.PendingChanges) domain.Layout {
	original := ComputeLayout(site, base)
	if len(pending) == 0 {
		return original
	}
	recomputed := ComputeLayout(site, pending.Apply(base))

	merged := domain.Layout{
		Garages: make([]domain.GarageLayout, 0, len(original.Garages)),
		Yard:    recomputed.Yard,
	}

	for gi, g := range original.Garages {
		mg := domain.GarageLayout{Config: g.Config, Lanes: make([]domain.LaneLayout, 0, len(g.Lanes))}
		for li, lane := range g.Lanes {
			ml := lane
			ml.Placements = nil
			for _, p := range lane.Placements {
				if !pending.Has(p.Truck.TruckID) {
					ml.Placements = append(ml.Placements, p)
				}
			}
			for _, p := range recomputed.Garages[gi].Lanes[li].Placements {
				if pending.Has(p.Truck.TruckID) {
					ml.Placements = append(ml.Placements, p)
				}
			}
			slices.SortStableFunc(ml.Placements, func(a, b domain.Placement) int {
				return cmp.Compare(a.Slot, b.Slot)
			})
			mg.Lanes = append(mg.Lanes, ml)
		}
		merged.Garages = append(merged.Garages, mg)
	}

	return merged
}
