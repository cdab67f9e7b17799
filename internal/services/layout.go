package services

import (
	"cmp"
	"garage-spot-service/internal/domain"
	"math"
	"slices"
)

// LayoutTarget is where a group of trucks gets placed: a single garage lane or the yard.
// Each variant owns one pure placement function.
type LayoutTarget interface {
	isLayoutTarget()
}

type GarageLaneTarget struct {
	Garage    domain.GarageConfig
	LaneIndex int
}

type YardTarget struct {
	Yard domain.YardConfig
}

func (GarageLaneTarget) isLayoutTarget() {}
func (YardTarget) isLayoutTarget()       {}

// Place dispatches to the placement policy of the target.
func Place(target LayoutTarget, trucks []*domain.Truck) []domain.Placement {
	switch t := target.(type) {
	case GarageLaneTarget:
		return PlaceLane(t.Garage, t.LaneIndex, trucks).Placements
	case YardTarget:
		return PlaceYard(t.Yard, trucks).Placements()
	default:
		return nil
	}
}

// PlaceLane positions up to three trucks in one lane by slot number.
//
// Slot 1 is top-aligned and slot 3 bottom-aligned. Slot 2 means "middle of three"
// when slot 3 is taken (centered in the gap between its neighbours, minimum
// spacing included) and "second of two" otherwise (bottom-aligned). The mode is
// derived from the trucks passed in on every call.
//
// Trucks whose spot does not resolve to a slot are ignored; the caller has already
// bucketed trucks per lane. If two trucks claim a slot the first one wins.
func PlaceLane(cfg domain.GarageConfig, laneIndex int, trucks []*domain.Truck) domain.LaneLayout {
	lane := domain.LaneLayout{
		Area:   cfg.Area,
		Index:  laneIndex,
		X:      cfg.LaneXOffset(laneIndex),
		Width:  cfg.LaneWidth,
		Length: cfg.LaneLength,
	}
	if laneIndex >= 0 && laneIndex < len(domain.LaneCodes) {
		lane.Lane = domain.LaneCodes[laneIndex]
	}

	bySlot := make(map[int]*domain.Truck, domain.SlotsPerLane)
	for _, t := range trucks {
		slot := t.Address().SlotOr(0)
		if slot < domain.SlotFront || slot > domain.SlotBack {
			continue
		}
		if _, taken := bySlot[slot]; !taken {
			bySlot[slot] = t
		}
	}

	top := cfg.TopMargin
	bottomEdge := cfg.LaneLength - cfg.BottomMargin

	ys := make(map[int]float64, len(bySlot))

	if _, ok := bySlot[domain.SlotFront]; ok {
		ys[domain.SlotFront] = top
	}
	if t, ok := bySlot[domain.SlotBack]; ok {
		ys[domain.SlotBack] = bottomEdge - t.EffectiveLength()
	}
	if t, ok := bySlot[domain.SlotMiddle]; ok {
		length := t.EffectiveLength()

		lo := top
		if front, ok := bySlot[domain.SlotFront]; ok {
			lo = ys[domain.SlotFront] + front.EffectiveLength()
		}

		var y, hi float64
		if _, ok := bySlot[domain.SlotBack]; ok {
			gapStart := top
			if _, ok := bySlot[domain.SlotFront]; ok {
				gapStart = lo + domain.MinSpacing
			}
			gapEnd := ys[domain.SlotBack] - domain.MinSpacing
			y = gapStart + (gapEnd-gapStart-length)/2
			hi = ys[domain.SlotBack] - length
		} else {
			y = bottomEdge - length
			hi = y
		}

		// Spacing may be violated here; overlap may not.
		if lo <= hi {
			y = min(max(y, lo), hi)
		} else {
			y = lo
		}
		ys[domain.SlotMiddle] = y
	}

	for slot := domain.SlotFront; slot <= domain.SlotBack; slot++ {
		t, ok := bySlot[slot]
		if !ok {
			continue
		}
		lane.Placements = append(lane.Placements, domain.Placement{
			Truck:  t,
			Slot:   slot,
			X:      lane.X,
			Y:      math.Max(ys[slot], 0),
			Length: t.EffectiveLength(),
		})
	}

	return lane
}

// PlaceYard packs unassigned trucks into the yard columns.
//
// Trucks are sorted longest first (ties by id) and dealt round-robin across the
// columns, each column filled top to bottom. Yard width depends only on the
// column count; height is the tallest column, floored at the minimum lane length.
func PlaceYard(cfg domain.YardConfig, trucks []*domain.Truck) domain.YardLayout {
	columns := max(cfg.Columns, 1)

	sorted := slices.Clone(trucks)
	slices.SortStableFunc(sorted, func(a, b *domain.Truck) int {
		if c := cmp.Compare(b.EffectiveLength(), a.EffectiveLength()); c != 0 {
			return c
		}
		return cmp.Compare(a.TruckID, b.TruckID)
	})

	yard := domain.YardLayout{
		Width:   cfg.Width(),
		Columns: make([]domain.YardColumn, columns),
	}
	cursor := make([]float64, columns)
	for c := range yard.Columns {
		yard.Columns[c] = domain.YardColumn{Index: c, X: cfg.ColumnXOffset(c)}
		cursor[c] = cfg.TopMargin
	}

	for i, t := range sorted {
		c := i % columns
		length := t.EffectiveLength()
		col := &yard.Columns[c]
		if len(col.Placements) > 0 {
			cursor[c] += domain.MinSpacing
		}
		col.Placements = append(col.Placements, domain.Placement{
			Truck:  t,
			Column: c,
			X:      col.X,
			Y:      cursor[c],
			Length: length,
		})
		cursor[c] += length
	}

	height := cfg.MinLaneLength
	for c := range yard.Columns {
		col := &yard.Columns[c]
		col.Height = columnHeight(cfg, col.Placements)
		height = max(height, col.Height)
	}
	yard.Height = height

	return yard
}

func columnHeight(cfg domain.YardConfig, placements []domain.Placement) float64 {
	h := cfg.TopMargin + cfg.BottomMargin
	for i, p := range placements {
		if i > 0 {
			h += domain.MinSpacing
		}
		h += p.Length
	}
	return h
}

// ComputeLayout places every truck in the site: garage lanes for trucks with a
// resolvable spot, the yard for everything else. Pure: the same trucks always
// produce the same offsets.
//
// A spot naming an unknown garage or lane, or a slot already claimed by a truck
// with a smaller id, sends the truck to the yard.
func ComputeLayout(site domain.SiteConfig, trucks []*domain.Truck) domain.Layout {
	sorted := slices.Clone(trucks)
	slices.SortStableFunc(sorted, func(a, b *domain.Truck) int {
		return cmp.Compare(a.TruckID, b.TruckID)
	})

	type laneKey struct {
		area string
		lane int
	}
	lanes := make(map[laneKey][]*domain.Truck)
	claimed := make(map[string]struct{})
	var yard []*domain.Truck

	for _, t := range sorted {
		addr := t.Address()
		if !addr.Assigned() {
			yard = append(yard, t)
			continue
		}
		if _, ok := site.Garage(*addr.Area); !ok {
			yard = append(yard, t)
			continue
		}
		li := domain.LaneIndex(*addr.Lane)
		if li < 0 {
			yard = append(yard, t)
			continue
		}
		key := addr.String()
		if _, dup := claimed[key]; dup {
			yard = append(yard, t)
			continue
		}
		claimed[key] = struct{}{}
		k := laneKey{area: *addr.Area, lane: li}
		lanes[k] = append(lanes[k], t)
	}

	out := domain.Layout{Garages: make([]domain.GarageLayout, 0, len(site.Garages))}
	for _, g := range site.Garages {
		gl := domain.GarageLayout{Config: g, Lanes: make([]domain.LaneLayout, 0, domain.LanesPerGarage)}
		for li := range domain.LanesPerGarage {
			gl.Lanes = append(gl.Lanes, PlaceLane(g, li, lanes[laneKey{area: g.Area, lane: li}]))
		}
		out.Garages = append(out.Garages, gl)
	}
	out.Yard = PlaceYard(site.Yard, yard)

	return out
}
