package services

import (
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"time"
)

var (
	ErrTruckNotFound = errors.New("truck not found")
	ErrNotDragging   = errors.New("no drag in progress")
	ErrUnknownGarage = errors.New("unknown garage")
)

// Point on the visible panel, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Viewport maps layout meters to panel pixels.
type Viewport struct {
	Scale      float64 // pixels per meter
	PanelWidth float64 // pixels
}

// DragSettings are the gesture thresholds.
type DragSettings struct {
	EdgeThreshold float64       // pixels from the panel's left/right edge
	EdgeDwell     time.Duration // time the pointer must stay past the threshold
	HitTolerance  float64       // meters around a truck's span that count as a direct hit
}

func DefaultDragSettings() DragSettings {
	return DragSettings{
		EdgeThreshold: 60,
		EdgeDwell:     500 * time.Millisecond,
		HitTolerance:  0.5,
	}
}

// DefaultViewport fits a 16 m garage into a 320 px panel.
func DefaultViewport() Viewport {
	return Viewport{Scale: 20, PanelWidth: 320}
}

type DropKind string

const (
	DropAssigned  DropKind = "assigned"
	DropSwapped   DropKind = "swapped"
	DropNoop      DropKind = "noop"
	DropCancelled DropKind = "cancelled"
	DropNavigated DropKind = "navigated"
)

// Outcome of a finished gesture.
type DropResult struct {
	Kind        DropKind
	TruckID     string
	Spot        string
	SwappedWith string
}

// Visual state reported while the pointer moves.
type MoveResult struct {
	Translation Point
	Edge        int
	Navigated   bool
	Garage      string
}

type gesture struct {
	truckID      string
	startPointer Point
	anchor       Point
	correction   Point
	preDragSpot  string
	hasNavigated bool
}

// Board is the single-threaded reconciliation state behind one garage view:
// the immutable base trucks, the pending-change overlay, the visible garage and
// the gesture in flight. It is not safe for concurrent use; Controller serialises
// access to it.
type Board struct {
	site     domain.SiteConfig
	settings DragSettings
	viewport Viewport

	trucks  []*domain.Truck
	byID    map[string]*domain.Truck
	pending domain.PendingChanges
	garage  int
	drag    *gesture
}

func NewBoard(site domain.SiteConfig, settings DragSettings, viewport Viewport, trucks []*domain.Truck) *Board {
	b := &Board{
		site:     site,
		settings: settings,
		viewport: viewport,
		pending:  domain.PendingChanges{},
	}
	b.SetTrucks(trucks)
	return b
}

// SetTrucks replaces the base truck list supplied by the caller.
// Overlay entries for trucks that disappeared, or whose new base spot already
// matches the pending spot, are dropped.
func (b *Board) SetTrucks(trucks []*domain.Truck) {
	b.trucks = trucks
	b.byID = domain.TrucksByID(trucks)

	for id, c := range b.pending {
		t, ok := b.byID[id]
		if !ok || domain.SameSpot(t.SpotValue(), c.NewSpot) {
			delete(b.pending, id)
			continue
		}
		c.OriginalSpot = t.SpotValue()
		b.pending[id] = c
	}
}

// RestorePending loads a previously saved overlay, keeping only entries that
// still refer to known trucks and differ from their base spot.
func (b *Board) RestorePending(changes []domain.PendingChange) {
	for _, c := range changes {
		t, ok := b.byID[c.TruckID]
		if !ok {
			continue
		}
		b.pending.Record(c.TruckID, t.SpotValue(), normalizeSpot(c.NewSpot))
	}
}

func (b *Board) Trucks() []*domain.Truck { return b.trucks }

// Pending returns a copy of the overlay.
func (b *Board) Pending() domain.PendingChanges { return b.pending.Clone() }

// Layout is the merged render layout for the current overlay.
func (b *Board) Layout() domain.Layout {
	return MergeLayout(b.site, b.trucks, b.pending)
}

// Garage returns the config of the visible garage.
func (b *Board) Garage() domain.GarageConfig { return b.site.Garages[b.garage] }

// SetGarage selects the visible garage by area code.
func (b *Board) SetGarage(area string) error {
	i := b.site.GarageIndex(area)
	if i < 0 {
		return fmt.Errorf("set garage %q: %w", area, ErrUnknownGarage)
	}
	b.garage = i
	return nil
}

func (b *Board) Dragging() bool { return b.drag != nil }

// effectiveSpot is the truck's spot with the overlay applied.
func (b *Board) effectiveSpot(truckID string) string {
	if c, ok := b.pending[truckID]; ok {
		return c.NewSpot
	}
	if t, ok := b.byID[truckID]; ok {
		return normalizeSpot(t.SpotValue())
	}
	return domain.YardSpot
}

func normalizeSpot(s string) string {
	return domain.ParseSpotString(s).String()
}

// occupant finds the truck whose effective spot is spot, other than exclude.
func (b *Board) occupant(spot, exclude string) (string, bool) {
	for _, t := range b.trucks {
		if t.TruckID == exclude {
			continue
		}
		if b.effectiveSpot(t.TruckID) == spot {
			return t.TruckID, true
		}
	}
	return "", false
}

func (b *Board) record(truckID, newSpot string) {
	t := b.byID[truckID]
	b.pending.Record(truckID, t.SpotValue(), normalizeSpot(newSpot))
}

func (b *Board) anchorOf(truckID string) Point {
	p, _, ok := b.Layout().Locate(truckID)
	if !ok {
		return Point{}
	}
	return Point{X: p.X * b.viewport.Scale, Y: p.Y * b.viewport.Scale}
}

// DragStart captures the truck and its on-screen anchor. The overlay is untouched.
// Starting a new drag abandons any gesture still in flight.
func (b *Board) DragStart(truckID string, pointer Point) error {
	if _, ok := b.byID[truckID]; !ok {
		return fmt.Errorf("drag start %q: %w", truckID, ErrTruckNotFound)
	}
	b.drag = &gesture{
		truckID:      truckID,
		startPointer: pointer,
		anchor:       b.anchorOf(truckID),
		preDragSpot:  b.effectiveSpot(truckID),
	}
	return nil
}

// DragMove reports the visual translation and which panel edge, if any, the
// pointer is pressing against. Edge checks stop once the gesture has navigated.
func (b *Board) DragMove(pointer Point) (MoveResult, error) {
	if b.drag == nil {
		return MoveResult{}, ErrNotDragging
	}
	res := MoveResult{
		Translation: pointer.Sub(b.drag.startPointer).Add(b.drag.correction),
		Navigated:   b.drag.hasNavigated,
		Garage:      b.Garage().Area,
	}
	if !b.drag.hasNavigated {
		res.Edge = b.edge(pointer)
	}
	return res, nil
}

func (b *Board) edge(pointer Point) int {
	switch {
	case pointer.X < b.settings.EdgeThreshold:
		return -1
	case pointer.X > b.viewport.PanelWidth-b.settings.EdgeThreshold:
		return 1
	default:
		return 0
	}
}

// Navigate moves the visible garage by dir (wrapping) on behalf of the dragged
// truck. If the truck has no slot in the destination garage it takes the first
// open slot 1 or slot 2 scanning lanes left to right, or the yard when none is
// open. The reassignment is recorded immediately and the anchor is re-based so
// the truck stays under the pointer. Only the first call per gesture has effect.
func (b *Board) Navigate(dir int) bool {
	if b.drag == nil || b.drag.hasNavigated || dir == 0 {
		return false
	}

	n := len(b.site.Garages)
	b.garage = ((b.garage+dir)%n + n) % n
	dest := b.Garage().Area

	oldAnchor := b.drag.anchor
	id := b.drag.truckID

	if b.effectiveAddress(id).AreaOr("") != dest {
		b.record(id, b.openingIn(dest, id))
	}

	b.drag.anchor = b.anchorOf(id)
	b.drag.correction = b.drag.correction.Add(oldAnchor.Sub(b.drag.anchor))
	b.drag.hasNavigated = true
	return true
}

func (b *Board) effectiveAddress(truckID string) domain.SpotAddress {
	return domain.ParseSpotString(b.effectiveSpot(truckID))
}

func (b *Board) openingIn(area, exclude string) string {
	for _, lane := range domain.LaneCodes {
		for _, slot := range []int{domain.SlotFront, domain.SlotMiddle} {
			spot := domain.FormatSpot(area, lane, slot)
			if _, taken := b.occupant(spot, exclude); !taken {
				return spot
			}
		}
	}
	return domain.YardSpot
}

// DragEnd resolves the drop and ends the gesture.
//
// A gesture that already navigated is final. A drop on the yard panel parks the
// truck in the yard. Otherwise the pointer is mapped into the visible garage: a
// point outside every lane cancels the drag; a point over the truck's own span
// is a no-op; a point over another truck's span swaps the two; anything else
// snaps to slot 1 (top half) or slot 2 (bottom half), swapping with whoever
// holds that slot.
func (b *Board) DragEnd(pointer Point, overYard bool) (DropResult, error) {
	if b.drag == nil {
		return DropResult{}, ErrNotDragging
	}
	g := b.drag
	b.drag = nil

	if g.hasNavigated {
		return DropResult{Kind: DropNavigated, TruckID: g.truckID, Spot: b.effectiveSpot(g.truckID)}, nil
	}

	if overYard {
		return b.assign(g, domain.YardSpot), nil
	}

	cfg := b.Garage()
	x := pointer.X / b.viewport.Scale
	y := pointer.Y / b.viewport.Scale

	li, ok := cfg.LaneAt(x)
	if !ok || y < 0 || y > cfg.LaneLength {
		return DropResult{Kind: DropCancelled, TruckID: g.truckID}, nil
	}

	layout, _ := b.Layout().Garage(cfg.Area)
	lane := layout.Lanes[li]

	if own, ok := lane.Placement(g.truckID); ok && own.Contains(y, b.settings.HitTolerance) {
		return b.assign(g, g.preDragSpot), nil
	}

	for _, p := range lane.Placements {
		if p.Truck.TruckID == g.truckID {
			continue
		}
		if p.Contains(y, b.settings.HitTolerance) {
			return b.swap(g, p.Truck.TruckID), nil
		}
	}

	slot := domain.SlotFront
	if y >= cfg.LaneLength/2 {
		slot = domain.SlotMiddle
	}
	target := domain.FormatSpot(cfg.Area, lane.Lane, slot)

	if other, taken := b.occupant(target, g.truckID); taken {
		return b.swap(g, other), nil
	}
	return b.assign(g, target), nil
}

func (b *Board) assign(g *gesture, spot string) DropResult {
	spot = normalizeSpot(spot)
	if domain.SameSpot(g.preDragSpot, spot) {
		// An earlier pending move of this truck is kept; only this gesture is void.
		return DropResult{Kind: DropNoop, TruckID: g.truckID, Spot: g.preDragSpot}
	}
	b.record(g.truckID, spot)
	return DropResult{Kind: DropAssigned, TruckID: g.truckID, Spot: spot}
}

// swap gives the dragged truck the target's spot and the target the dragged
// truck's pre-drag spot (the yard when it had none).
func (b *Board) swap(g *gesture, other string) DropResult {
	targetSpot := b.effectiveSpot(other)
	b.record(g.truckID, targetSpot)
	b.record(other, g.preDragSpot)
	return DropResult{Kind: DropSwapped, TruckID: g.truckID, Spot: targetSpot, SwappedWith: other}
}

// CancelDrag abandons the gesture without touching the overlay.
func (b *Board) CancelDrag() { b.drag = nil }

// Discard drops the entire overlay.
func (b *Board) Discard() { b.pending.Clear() }

// ApplyCommitted folds saved changes into the base trucks. A truck moved again
// while the save was outstanding, including one moved back to where it started,
// stays pending at its live spot against the saved base.
func (b *Board) ApplyCommitted(changes []domain.SpotChange) {
	saved := make(map[string]string, len(changes))
	live := make(map[string]string, len(changes))
	for _, c := range changes {
		saved[c.TruckID] = c.NewSpot
		live[c.TruckID] = b.effectiveSpot(c.TruckID)
	}

	trucks := make([]*domain.Truck, 0, len(b.trucks))
	for _, t := range b.trucks {
		if spot, ok := saved[t.TruckID]; ok {
			t = t.WithSpot(spot)
		}
		trucks = append(trucks, t)
	}
	b.SetTrucks(trucks)

	for id, spot := range live {
		if _, ok := b.byID[id]; ok {
			b.record(id, spot)
		}
	}
}

// Preview computes drop-target availability in the visible garage for truckID.
func (b *Board) Preview(truckID string) ([]LanePreview, error) {
	t, ok := b.byID[truckID]
	if !ok {
		return nil, fmt.Errorf("preview %q: %w", truckID, ErrTruckNotFound)
	}
	cfg := b.Garage()
	layout, _ := b.Layout().Garage(cfg.Area)
	return GarageAvailability(cfg, layout, t), nil
}
