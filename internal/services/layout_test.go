package services

import (
	"fmt"
	"garage-spot-service/internal/domain"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func truck(id, spot string, length float64) *domain.Truck {
	t := &domain.Truck{TruckID: id, Length: length}
	if spot != "" {
		t.Spot = &spot
	}
	return t
}

func b1() domain.GarageConfig {
	return domain.DefaultSite().Garages[0]
}

func TestPlaceLaneAnchorsSlotOneAndThree(t *testing.T) {
	cfg := b1()

	cases := [][]*domain.Truck{
		{truck("a", "B1_F1_V1", 6), truck("c", "B1_F1_V3", 7)},
		{truck("a", "B1_F1_V1", 3), truck("b", "B1_F1_V2", 4), truck("c", "B1_F1_V3", 9)},
		{truck("a", "B1_F1_V1", 12)},
		{truck("c", "B1_F1_V3", 12)},
		{truck("b", "B1_F1_V2", 5), truck("c", "B1_F1_V3", 5)},
	}

	for i, trucks := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			lane := PlaceLane(cfg, 0, trucks)
			require.Len(t, lane.Placements, len(trucks))

			if p, ok := lane.BySlot(domain.SlotFront); ok {
				assert.InDelta(t, cfg.TopMargin, p.Y, eps, "slot 1 top edge")
			}
			if p, ok := lane.BySlot(domain.SlotBack); ok {
				assert.InDelta(t, cfg.LaneLength-cfg.BottomMargin, p.Bottom(), eps, "slot 3 bottom edge")
			}
			for j := 1; j < len(lane.Placements); j++ {
				assert.LessOrEqual(t, lane.Placements[j-1].Bottom(), lane.Placements[j].Y+eps, "overlap")
			}
		})
	}
}

func TestPlaceLaneSlotTwoSecondOfTwo(t *testing.T) {
	cfg := b1()
	lane := PlaceLane(cfg, 1, []*domain.Truck{
		truck("a", "B1_F2_V1", 8),
		truck("b", "B1_F2_V2", 6),
	})

	p, ok := lane.BySlot(domain.SlotMiddle)
	require.True(t, ok)
	assert.InDelta(t, cfg.LaneLength-cfg.BottomMargin, p.Bottom(), eps)
	assert.Equal(t, "F2", lane.Lane)
	assert.InDelta(t, 6.0, p.X, eps)
}

func TestPlaceLaneSlotTwoMiddleOfThree(t *testing.T) {
	cfg := b1()
	lane := PlaceLane(cfg, 0, []*domain.Truck{
		truck("a", "B1_F1_V1", 6),
		truck("b", "B1_F1_V2", 4),
		truck("c", "B1_F1_V3", 7),
	})

	front, _ := lane.BySlot(domain.SlotFront)
	back, _ := lane.BySlot(domain.SlotBack)
	mid, _ := lane.BySlot(domain.SlotMiddle)

	gapStart := front.Bottom() + domain.MinSpacing
	gapEnd := back.Y - domain.MinSpacing
	assert.InDelta(t, gapStart+(gapEnd-gapStart-4)/2, mid.Y, eps)
}

func TestPlaceLaneSlotSwapKeepsFormula(t *testing.T) {
	cfg := b1()
	x := func(spot string) *domain.Truck { return truck("x", spot, 4) }
	y := func(spot string) *domain.Truck { return truck("y", spot, 6) }

	l1 := PlaceLane(cfg, 0, []*domain.Truck{truck("a", "B1_F1_V1", 5), x("B1_F1_V2"), y("B1_F1_V3")})
	l2 := PlaceLane(cfg, 0, []*domain.Truck{truck("a", "B1_F1_V1", 5), y("B1_F1_V2"), x("B1_F1_V3")})

	for _, lane := range []domain.LaneLayout{l1, l2} {
		front, _ := lane.BySlot(domain.SlotFront)
		mid, _ := lane.BySlot(domain.SlotMiddle)
		back, _ := lane.BySlot(domain.SlotBack)

		gapStart := front.Bottom() + domain.MinSpacing
		gapEnd := back.Y - domain.MinSpacing
		assert.InDelta(t, gapStart+(gapEnd-gapStart-mid.Length)/2, mid.Y, eps)
		assert.InDelta(t, cfg.LaneLength-cfg.BottomMargin, back.Bottom(), eps)
	}

	mid1, _ := l1.BySlot(domain.SlotMiddle)
	mid2, _ := l2.BySlot(domain.SlotMiddle)
	assert.Equal(t, "x", mid1.Truck.TruckID)
	assert.Equal(t, "y", mid2.Truck.TruckID)
}

func TestPlaceLaneExampleScenario(t *testing.T) {
	cfg := b1()
	require.InDelta(t, 24.6, cfg.LaneLength, eps)

	lane := PlaceLane(cfg, 0, []*domain.Truck{
		truck("t1", "B1_F1_V1", 10),
		truck("t2", "B1_F1_V2", 5),
		truck("t3", "B1_F1_V3", 8),
	})

	mid, ok := lane.BySlot(domain.SlotMiddle)
	require.True(t, ok)

	// Gap runs from t1's bottom plus spacing (11.2) to t3's top minus spacing (15.4).
	want := 11.2 + (15.4-11.2-5)/2
	assert.InDelta(t, want, mid.Y, 1e-6)

	front, _ := lane.BySlot(domain.SlotFront)
	back, _ := lane.BySlot(domain.SlotBack)
	assert.GreaterOrEqual(t, mid.Y, front.Bottom())
	assert.LessOrEqual(t, mid.Bottom(), back.Y+eps)
}

func TestPlaceLaneUsesFullLength(t *testing.T) {
	cfg := b1()
	full := 9.0
	tr := truck("a", "B1_F1_V3", 5)
	tr.FullLength = &full

	lane := PlaceLane(cfg, 0, []*domain.Truck{tr})
	require.Len(t, lane.Placements, 1)
	assert.InDelta(t, cfg.LaneLength-cfg.BottomMargin-9, lane.Placements[0].Y, eps)
	assert.InDelta(t, 9.0, lane.Placements[0].Length, eps)
}

func TestPlaceLaneOffsetsNonNegative(t *testing.T) {
	cfg := b1()
	lane := PlaceLane(cfg, 0, []*domain.Truck{truck("huge", "B1_F1_V3", 40)})
	require.Len(t, lane.Placements, 1)
	assert.GreaterOrEqual(t, lane.Placements[0].Y, 0.0)
}

func TestPlaceYardLongestFirstRoundRobin(t *testing.T) {
	yardCfg := domain.DefaultSite().Yard
	trucks := []*domain.Truck{
		truck("a", "", 4),
		truck("b", "", 12),
		truck("c", domain.YardSpot, 7),
		truck("d", "", 3),
		truck("e", "", 9),
		truck("f", "", 11),
		truck("g", "", 2),
	}

	yard := PlaceYard(yardCfg, trucks)

	require.Len(t, yard.Columns, 5)
	assert.Equal(t, "b", yard.Columns[0].Placements[0].Truck.TruckID, "longest truck goes first")
	assert.Equal(t, "f", yard.Columns[1].Placements[0].Truck.TruckID)
	assert.Equal(t, "e", yard.Columns[2].Placements[0].Truck.TruckID)
	assert.Equal(t, "c", yard.Columns[3].Placements[0].Truck.TruckID)
	assert.Equal(t, "a", yard.Columns[4].Placements[0].Truck.TruckID)

	// Sixth and seventh wrap back to the first columns.
	require.Len(t, yard.Columns[0].Placements, 2)
	second := yard.Columns[0].Placements[1]
	assert.Equal(t, "d", second.Truck.TruckID)
	assert.InDelta(t, yardCfg.TopMargin+12+domain.MinSpacing, second.Y, eps)

	assert.InDelta(t, yardCfg.TopMargin+12+domain.MinSpacing+3+yardCfg.BottomMargin, yard.Columns[0].Height, eps)
	assert.InDelta(t, yardCfg.MinLaneLength, yard.Height, eps, "short columns floor at min lane length")
	assert.InDelta(t, yardCfg.Width(), yard.Width, eps)
}

func TestPlaceYardTallColumnSetsHeight(t *testing.T) {
	yardCfg := domain.DefaultSite().Yard
	var trucks []*domain.Truck
	for i := range 10 {
		trucks = append(trucks, truck(fmt.Sprintf("t%02d", i), "", 14))
	}

	yard := PlaceYard(yardCfg, trucks)
	want := yardCfg.TopMargin + 14 + domain.MinSpacing + 14 + yardCfg.BottomMargin
	assert.InDelta(t, want, yard.Height, eps)
	assert.InDelta(t, PlaceYard(yardCfg, nil).Width, yard.Width, eps, "width independent of truck count")
}

func TestPlaceYardDeterministic(t *testing.T) {
	yardCfg := domain.DefaultSite().Yard
	trucks := []*domain.Truck{
		truck("a", "", 5), truck("b", "", 5), truck("c", "", 8), truck("d", "", 1),
	}
	reversed := []*domain.Truck{trucks[3], trucks[2], trucks[1], trucks[0]}

	first := PlaceYard(yardCfg, trucks)
	for range 5 {
		if diff := cmp.Diff(first, PlaceYard(yardCfg, reversed)); diff != "" {
			t.Fatalf("yard layout changed (-first +again):\n%s", diff)
		}
	}
}

func TestComputeLayoutRoutesUnplaceableToYard(t *testing.T) {
	site := domain.DefaultSite()
	trucks := []*domain.Truck{
		truck("a", "B1_F1_V1", 5),
		truck("b", "B1_F1_V1", 6),
		truck("c", "B9_F1_V1", 5),
		truck("d", "B1_F9_V1", 5),
		truck("e", "not-a-spot", 5),
		truck("f", "B2_F3_V3", 5),
	}

	layout := ComputeLayout(site, trucks)

	_, area, ok := layout.Locate("a")
	require.True(t, ok)
	assert.Equal(t, "B1", area)

	for _, id := range []string{"b", "c", "d", "e"} {
		_, area, ok := layout.Locate(id)
		require.True(t, ok, id)
		assert.Empty(t, area, "%s should be in the yard", id)
	}

	p, area, ok := layout.Locate("f")
	require.True(t, ok)
	assert.Equal(t, "B2", area)
	assert.Equal(t, domain.SlotBack, p.Slot)
	assert.InDelta(t, 11.0, p.X, eps)
}

func TestPlaceDispatchesOnTarget(t *testing.T) {
	site := domain.DefaultSite()
	trucks := []*domain.Truck{truck("a", "B1_F1_V1", 5)}

	lane := Place(GarageLaneTarget{Garage: site.Garages[0], LaneIndex: 0}, trucks)
	require.Len(t, lane, 1)
	assert.Equal(t, domain.SlotFront, lane[0].Slot)

	yard := Place(YardTarget{Yard: site.Yard}, trucks)
	require.Len(t, yard, 1)
	assert.Equal(t, 0, yard[0].Column)
}
