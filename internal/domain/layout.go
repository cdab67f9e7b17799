package domain

// Resolved position of one truck, in meters from the top-left of its garage or yard.
type Placement struct {
	Truck  *Truck
	Slot   int
	Column int
	X      float64
	Y      float64
	Length float64
}

// Bottom edge along the lane's long axis.
func (p Placement) Bottom() float64 { return p.Y + p.Length }

// Report whether y lies within the truck's span, widened by tolerance on both ends.
func (p Placement) Contains(y, tolerance float64) bool {
	return y >= p.Y-tolerance && y <= p.Bottom()+tolerance
}

type LaneLayout struct {
	Area       string
	Lane       string
	Index      int
	X          float64
	Width      float64
	Length     float64
	Placements []Placement
}

// BySlot returns the placement occupying slot, if any.
func (l LaneLayout) BySlot(slot int) (Placement, bool) {
	for _, p := range l.Placements {
		if p.Slot == slot {
			return p, true
		}
	}
	return Placement{}, false
}

// Placement finds the placement of truckID in the lane.
func (l LaneLayout) Placement(truckID string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.Truck != nil && p.Truck.TruckID == truckID {
			return p, true
		}
	}
	return Placement{}, false
}

type GarageLayout struct {
	Config GarageConfig
	Lanes  []LaneLayout
}

// Lane returns the layout of a lane code.
func (g GarageLayout) Lane(code string) (LaneLayout, bool) {
	for _, l := range g.Lanes {
		if l.Lane == code {
			return l, true
		}
	}
	return LaneLayout{}, false
}

type YardColumn struct {
	Index      int
	X          float64
	Height     float64
	Placements []Placement
}

type YardLayout struct {
	Width   float64
	Height  float64
	Columns []YardColumn
}

// Placements flattens the yard columns in column order.
func (y YardLayout) Placements() []Placement {
	var out []Placement
	for _, c := range y.Columns {
		out = append(out, c.Placements...)
	}
	return out
}

// Layout is the render-ready structure for the whole site.
type Layout struct {
	Garages []GarageLayout
	Yard    YardLayout
}

// Garage returns the layout of area.
func (l Layout) Garage(area string) (GarageLayout, bool) {
	for _, g := range l.Garages {
		if g.Config.Area == area {
			return g, true
		}
	}
	return GarageLayout{}, false
}

// Locate finds where a truck was placed. area is empty for the yard.
func (l Layout) Locate(truckID string) (p Placement, area string, ok bool) {
	for _, g := range l.Garages {
		for _, lane := range g.Lanes {
			for _, p := range lane.Placements {
				if p.Truck.TruckID == truckID {
					return p, g.Config.Area, true
				}
			}
		}
	}
	for _, p := range l.Yard.Placements() {
		if p.Truck.TruckID == truckID {
			return p, "", true
		}
	}
	return Placement{}, "", false
}
