package handlers

import (
	"garage-spot-service/internal/api/dto"
	"garage-spot-service/internal/domain"
	"garage-spot-service/internal/ports"
	"garage-spot-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

// TruckHandler exposes the committed truck list and its layout.
type TruckHandler struct {
	Repo   ports.TruckRepository
	Site   domain.SiteConfig
	Logger *zap.Logger
}

func (h *TruckHandler) Garages(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, siteResponse(h.Site))
}

func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.Repo.ListTrucks(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}

	res := dto.ListTrucksResponse{
		Trucks: make([]dto.TruckResponse, 0, len(trucks)),
	}
	for _, t := range trucks {
		res.Trucks = append(res.Trucks, truckResponse(t))
	}

	writeJSON(h.Logger, w, r, http.StatusOK, res)
}

// Layout renders the committed spots with no pending overlay.
func (h *TruckHandler) Layout(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.Repo.ListTrucks(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}

	layout := services.ComputeLayout(h.Site, trucks)
	writeJSON(h.Logger, w, r, http.StatusOK, layoutResponse(layout, nil))
}
