package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// YardSpot is the stored spot value for trucks parked in the overflow yard ("patio").
const YardSpot = "PATIO"

// Slot numbers within a lane, front to back.
const (
	SlotFront  = 1
	SlotMiddle = 2
	SlotBack   = 3
)

var spotPattern = regexp.MustCompile(`^([A-Z]\d)_([A-Z]\d)_V(\d)$`)

// Structured form of a spot value such as "B1_F2_V3".
// All fields nil means the truck is unassigned (yard).
type SpotAddress struct {
	Area       *string
	Lane       *string
	SlotNumber *int
}

// Report whether all three coordinates resolved.
func (s SpotAddress) Assigned() bool {
	return s.Area != nil && s.Lane != nil && s.SlotNumber != nil
}

// AreaOr returns the area or fallback when unassigned.
func (s SpotAddress) AreaOr(fallback string) string {
	if s.Area == nil {
		return fallback
	}
	return *s.Area
}

// LaneOr returns the lane or fallback when unassigned.
func (s SpotAddress) LaneOr(fallback string) string {
	if s.Lane == nil {
		return fallback
	}
	return *s.Lane
}

// SlotOr returns the slot number or fallback when unassigned.
func (s SpotAddress) SlotOr(fallback int) int {
	if s.SlotNumber == nil {
		return fallback
	}
	return *s.SlotNumber
}

// String formats the address back to its stored value.
func (s SpotAddress) String() string {
	if !s.Assigned() {
		return YardSpot
	}
	return FormatSpot(*s.Area, *s.Lane, *s.SlotNumber)
}

// ParseSpot decodes a stored spot value.
//
// nil, the yard sentinel and anything that does not match the
// <Area><digit>_<Lane><digit>_V<digit> pattern all decode to an unassigned
// address. Spot values come from a relaxed upstream schema, so garbage is
// treated as "in the yard" rather than as an error.
func ParseSpot(value *string) SpotAddress {
	if value == nil {
		return SpotAddress{}
	}
	return ParseSpotString(*value)
}

// ParseSpotString is ParseSpot for a non-nullable value.
func ParseSpotString(value string) SpotAddress {
	if value == YardSpot {
		return SpotAddress{}
	}

	m := spotPattern.FindStringSubmatch(value)
	if m == nil {
		return SpotAddress{}
	}

	slot, err := strconv.Atoi(m[3])
	if err != nil || slot < SlotFront || slot > SlotBack {
		return SpotAddress{}
	}

	area, lane := m[1], m[2]
	return SpotAddress{Area: &area, Lane: &lane, SlotNumber: &slot}
}

// FormatSpot is the inverse of ParseSpot for assigned addresses.
func FormatSpot(area, lane string, slotNumber int) string {
	return fmt.Sprintf("%s_%s_V%d", area, lane, slotNumber)
}

// NewSpotAddress builds an assigned address.
func NewSpotAddress(area, lane string, slotNumber int) SpotAddress {
	return SpotAddress{Area: &area, Lane: &lane, SlotNumber: &slotNumber}
}

// IsYardSpot reports whether a stored value places the truck in the yard.
func IsYardSpot(value *string) bool {
	return !ParseSpot(value).Assigned()
}
