package handlers

import (
	"garage-spot-service/internal/api/dto"
	"garage-spot-service/internal/domain"
	"garage-spot-service/internal/services"
	"slices"
)

func truckResponse(t *domain.Truck) dto.TruckResponse {
	return dto.TruckResponse{
		TruckID:         t.TruckID,
		Name:            t.Name,
		Color:           t.Color,
		Serial:          t.Serial,
		Spot:            t.Address().String(),
		Length:          t.Length,
		FullLength:      t.FullLength,
		EffectiveLength: t.EffectiveLength(),
	}
}

func siteResponse(site domain.SiteConfig) dto.SiteResponse {
	res := dto.SiteResponse{
		Garages: make([]dto.GarageResponse, 0, len(site.Garages)),
		Yard: dto.YardConfigResponse{
			Columns:       site.Yard.Columns,
			Width:         site.Yard.Width(),
			LaneWidth:     site.Yard.LaneWidth,
			LanePadding:   site.Yard.LanePadding,
			MinLaneLength: site.Yard.MinLaneLength,
		},
	}
	for _, g := range site.Garages {
		res.Garages = append(res.Garages, dto.GarageResponse{
			Area:         g.Area,
			Width:        g.Width,
			Length:       g.Length,
			TopMargin:    g.TopMargin,
			BottomMargin: g.BottomMargin,
			LaneWidth:    g.LaneWidth,
			LanePadding:  g.LanePadding,
			LaneLength:   g.LaneLength,
			Lanes:        slices.Clone(domain.LaneCodes),
		})
	}
	return res
}

func placementResponse(p domain.Placement, width float64, pending domain.PendingChanges) dto.PlacementResponse {
	return dto.PlacementResponse{
		TruckID: p.Truck.TruckID,
		Spot:    p.Truck.Address().String(),
		Slot:    p.Slot,
		Column:  p.Column,
		X:       p.X,
		Y:       p.Y,
		Width:   width,
		Length:  p.Length,
		Pending: pending.Has(p.Truck.TruckID),
	}
}

// layoutResponse flattens a layout for rendering. pending marks trucks whose
// spot is speculative; nil means none.
func layoutResponse(layout domain.Layout, pending domain.PendingChanges) dto.LayoutResponse {
	res := dto.LayoutResponse{
		Garages: make([]dto.GarageLayoutResponse, 0, len(layout.Garages)),
		Yard: dto.YardLayoutResponse{
			Width:   layout.Yard.Width,
			Height:  layout.Yard.Height,
			Columns: make([]dto.YardColumnResponse, 0, len(layout.Yard.Columns)),
		},
	}

	for _, g := range layout.Garages {
		gr := dto.GarageLayoutResponse{
			Area:  g.Config.Area,
			Width: g.Config.Width,
			Lanes: make([]dto.LaneResponse, 0, len(g.Lanes)),
		}
		for _, lane := range g.Lanes {
			lr := dto.LaneResponse{
				Lane:       lane.Lane,
				X:          lane.X,
				Width:      lane.Width,
				Length:     lane.Length,
				Placements: make([]dto.PlacementResponse, 0, len(lane.Placements)),
			}
			for _, p := range lane.Placements {
				lr.Placements = append(lr.Placements, placementResponse(p, lane.Width, pending))
			}
			gr.Lanes = append(gr.Lanes, lr)
		}
		res.Garages = append(res.Garages, gr)
	}

	for _, c := range layout.Yard.Columns {
		cr := dto.YardColumnResponse{
			Column:     c.Index,
			X:          c.X,
			Height:     c.Height,
			Placements: make([]dto.PlacementResponse, 0, len(c.Placements)),
		}
		for _, p := range c.Placements {
			pr := placementResponse(p, 0, pending)
			pr.Spot = domain.YardSpot
			cr.Placements = append(cr.Placements, pr)
		}
		res.Yard.Columns = append(res.Yard.Columns, cr)
	}

	return res
}

func pendingResponse(changes []domain.PendingChange) []dto.PendingChangeResponse {
	out := make([]dto.PendingChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.PendingChangeResponse{
			TruckID:      c.TruckID,
			OriginalSpot: c.OriginalSpot,
			NewSpot:      c.NewSpot,
		})
	}
	return out
}

func previewResponse(garage, truckID string, lanes []services.LanePreview) dto.PreviewResponse {
	res := dto.PreviewResponse{
		Garage:  garage,
		TruckID: truckID,
		Lanes:   make([]dto.LanePreviewResponse, 0, len(lanes)),
	}
	for _, l := range lanes {
		lr := dto.LanePreviewResponse{
			Lane:           l.Lane,
			OccupiedSlots:  l.OccupiedSlots,
			OccupiedLength: l.OccupiedLength,
			Fits:           l.Fits,
			Slots:          make([]dto.SlotPreviewResponse, 0, len(l.Slots)),
		}
		if lr.OccupiedSlots == nil {
			lr.OccupiedSlots = []int{}
		}
		for _, s := range l.Slots {
			lr.Slots = append(lr.Slots, dto.SlotPreviewResponse{
				Slot:      s.Slot,
				Position:  s.Position,
				Available: s.Available,
				Fits:      s.Fits,
			})
		}
		res.Lanes = append(res.Lanes, lr)
	}
	return res
}
