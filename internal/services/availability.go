package services

import (
	"garage-spot-service/internal/domain"
)

// Named slot positions used by drag previews.
const (
	PositionTop    = "top"
	PositionMiddle = "middle"
	PositionBottom = "bottom"
)

var slotPositions = map[int]string{
	domain.SlotFront:  PositionTop,
	domain.SlotMiddle: PositionMiddle,
	domain.SlotBack:   PositionBottom,
}

// Free space at one open slot of a lane, for highlighting drop targets.
type SlotPreview struct {
	Slot      int
	Position  string
	Available float64
	Fits      bool
}

// Occupancy summary of one lane as seen by a candidate truck.
type LanePreview struct {
	Area           string
	Lane           string
	OccupiedSlots  []int
	OccupiedLength float64
	Fits           bool
	Slots          []SlotPreview
}

// LaneAvailability computes the two-colour drag preview for a candidate over one lane.
//
// This is advisory only: authoritative placement is PlaceLane. The lane fits the
// candidate when it holds fewer than three trucks and the existing trucks, the
// candidate, both margins and one minimum spacing between every adjacent pair
// stay within the lane length. Each open slot additionally reports the space
// between its neighbours.
func LaneAvailability(cfg domain.GarageConfig, laneIndex int, trucks []*domain.Truck, candidate *domain.Truck) LanePreview {
	others := make([]*domain.Truck, 0, len(trucks))
	for _, t := range trucks {
		if candidate != nil && t.TruckID == candidate.TruckID {
			continue
		}
		others = append(others, t)
	}

	lane := PlaceLane(cfg, laneIndex, others)

	preview := LanePreview{Area: cfg.Area, Lane: lane.Lane}
	for _, p := range lane.Placements {
		preview.OccupiedSlots = append(preview.OccupiedSlots, p.Slot)
		preview.OccupiedLength += p.Length
	}

	candLen := 0.0
	if candidate != nil {
		candLen = candidate.EffectiveLength()
	}

	n := len(lane.Placements)
	required := preview.OccupiedLength + candLen + cfg.TopMargin + cfg.BottomMargin + float64(n)*domain.MinSpacing
	preview.Fits = n < domain.SlotsPerLane && required <= cfg.LaneLength

	top := cfg.TopMargin
	bottomEdge := cfg.LaneLength - cfg.BottomMargin

	for slot := domain.SlotFront; slot <= domain.SlotBack; slot++ {
		if _, taken := lane.BySlot(slot); taken {
			continue
		}

		start, end := top, bottomEdge
		for _, p := range lane.Placements {
			if p.Slot < slot {
				start = max(start, p.Bottom()+domain.MinSpacing)
			}
			if p.Slot > slot {
				end = min(end, p.Y-domain.MinSpacing)
			}
		}

		available := max(end-start, 0)
		preview.Slots = append(preview.Slots, SlotPreview{
			Slot:      slot,
			Position:  slotPositions[slot],
			Available: available,
			Fits:      preview.Fits && candLen <= available,
		})
	}

	return preview
}

// GarageAvailability previews every lane of a garage for candidate.
func GarageAvailability(cfg domain.GarageConfig, layout domain.GarageLayout, candidate *domain.Truck) []LanePreview {
	out := make([]LanePreview, 0, len(layout.Lanes))
	for _, lane := range layout.Lanes {
		trucks := make([]*domain.Truck, 0, len(lane.Placements))
		for _, p := range lane.Placements {
			trucks = append(trucks, p.Truck)
		}
		out = append(out, LaneAvailability(cfg, lane.Index, trucks, candidate))
	}
	return out
}
