package domain

import (
	"fmt"
	"math"
	"slices"
)

// Layout constants, in meters.
const (
	MinSpacing     = 1.0
	TopMargin      = 0.2
	BottomMargin   = 0.2
	LanesPerGarage = 3
	SlotsPerLane   = 3
)

// Lane codes in left-to-right order.
var LaneCodes = []string{"F1", "F2", "F3"}

// Static geometry of one garage. Configs are built once at startup and never mutated.
type GarageConfig struct {
	Area         string  `toml:"area"`
	Width        float64 `toml:"width"`
	Length       float64 `toml:"length"`
	TopMargin    float64 `toml:"top_margin"`
	BottomMargin float64 `toml:"bottom_margin"`
	LaneWidth    float64 `toml:"lane_width"`
	LanePadding  float64 `toml:"lane_padding"`
	LaneLength   float64 `toml:"lane_length"`
}

// Validate checks that the three lanes plus padding fill the garage width exactly.
func (g GarageConfig) Validate() error {
	if g.Area == "" {
		return fmt.Errorf("validate garage: area must not be empty")
	}
	if g.LaneWidth <= 0 || g.LaneLength <= 0 {
		return fmt.Errorf("validate garage %s: lane width and length must be positive", g.Area)
	}
	want := LanesPerGarage*g.LaneWidth + (LanesPerGarage+1)*g.LanePadding
	if math.Abs(want-g.Width) > 1e-9 {
		return fmt.Errorf(
			"validate garage %s: width %v does not match 3 lanes of %v with padding %v (want %v)",
			g.Area, g.Width, g.LaneWidth, g.LanePadding, want,
		)
	}
	if g.TopMargin < 0 || g.BottomMargin < 0 {
		return fmt.Errorf("validate garage %s: margins must not be negative", g.Area)
	}
	return nil
}

// LaneXOffset is the left edge of lane laneIndex (0-based) inside the garage.
func (g GarageConfig) LaneXOffset(laneIndex int) float64 {
	return g.LanePadding + float64(laneIndex)*(g.LaneWidth+g.LanePadding)
}

// LaneAt returns the index of the lane whose horizontal span contains x.
func (g GarageConfig) LaneAt(x float64) (int, bool) {
	for i := range LanesPerGarage {
		left := g.LaneXOffset(i)
		if x >= left && x < left+g.LaneWidth {
			return i, true
		}
	}
	return -1, false
}

// Geometry of the overflow yard.
type YardConfig struct {
	Columns       int     `toml:"columns"`
	LaneWidth     float64 `toml:"lane_width"`
	LanePadding   float64 `toml:"lane_padding"`
	TopMargin     float64 `toml:"top_margin"`
	BottomMargin  float64 `toml:"bottom_margin"`
	MinLaneLength float64 `toml:"min_lane_length"`
}

// Width depends only on the column count, never on how many trucks are parked.
func (y YardConfig) Width() float64 {
	return float64(y.Columns)*y.LaneWidth + float64(y.Columns+1)*y.LanePadding
}

// ColumnXOffset is the left edge of yard column col.
func (y YardConfig) ColumnXOffset(col int) float64 {
	return y.LanePadding + float64(col)*(y.LaneWidth+y.LanePadding)
}

// Full static site configuration: garages in navigation order plus the yard.
type SiteConfig struct {
	Garages []GarageConfig `toml:"garages"`
	Yard    YardConfig     `toml:"yard"`
}

// Garage looks up a garage by area code.
func (s SiteConfig) Garage(area string) (GarageConfig, bool) {
	i := s.GarageIndex(area)
	if i < 0 {
		return GarageConfig{}, false
	}
	return s.Garages[i], true
}

// GarageIndex returns the navigation index of area or -1.
func (s SiteConfig) GarageIndex(area string) int {
	return slices.IndexFunc(s.Garages, func(g GarageConfig) bool { return g.Area == area })
}

func (s SiteConfig) Validate() error {
	if len(s.Garages) == 0 {
		return fmt.Errorf("validate site: at least one garage is required")
	}
	seen := make(map[string]struct{}, len(s.Garages))
	for _, g := range s.Garages {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("validate site: %w", err)
		}
		if _, ok := seen[g.Area]; ok {
			return fmt.Errorf("validate site: duplicate garage %s", g.Area)
		}
		seen[g.Area] = struct{}{}
	}
	if s.Yard.Columns < 1 {
		return fmt.Errorf("validate site: yard needs at least one column")
	}
	return nil
}

// LaneXOffset resolves the left edge of a lane within the named garage.
func (s SiteConfig) LaneXOffset(laneIndex int, area string) (float64, bool) {
	g, ok := s.Garage(area)
	if !ok || laneIndex < 0 || laneIndex >= LanesPerGarage {
		return 0, false
	}
	return g.LaneXOffset(laneIndex), true
}

// LaneIndex returns the index of a lane code or -1.
func LaneIndex(lane string) int {
	return slices.Index(LaneCodes, lane)
}

// DefaultSite is the compiled-in geometry of the shop floor.
func DefaultSite() SiteConfig {
	garage := func(area string, laneLength float64) GarageConfig {
		return GarageConfig{
			Area:         area,
			Width:        16,
			Length:       laneLength + 0.4,
			TopMargin:    TopMargin,
			BottomMargin: BottomMargin,
			LaneWidth:    4,
			LanePadding:  1,
			LaneLength:   laneLength,
		}
	}

	return SiteConfig{
		Garages: []GarageConfig{
			garage("B1", 24.6),
			garage("B2", 20),
			garage("B3", 30),
		},
		Yard: YardConfig{
			Columns:       5,
			LaneWidth:     4,
			LanePadding:   1,
			TopMargin:     TopMargin,
			BottomMargin:  BottomMargin,
			MinLaneLength: 24.6,
		},
	}
}
