package dto

type CreateSessionRequest struct {
	Scale      float64 `json:"scale"`
	PanelWidth float64 `json:"panel_width"`
	Garage     string  `json:"garage"`
}

type SessionLayoutResponse struct {
	SessionID    string         `json:"session_id"`
	Garage       string         `json:"garage"`
	Scale        float64        `json:"scale"`
	PanelWidth   float64        `json:"panel_width"`
	PendingCount int            `json:"pending_count"`
	Layout       LayoutResponse `json:"layout"`
}

type SetGarageRequest struct {
	Garage string `json:"garage"`
}

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DragStartRequest struct {
	TruckID string       `json:"truck_id"`
	Pointer PointRequest `json:"pointer"`
}

type DragMoveRequest struct {
	Pointer PointRequest `json:"pointer"`
}

type DragEndRequest struct {
	Pointer  PointRequest `json:"pointer"`
	OverYard bool         `json:"over_yard"`
}

type DragMoveResponse struct {
	Translation PointRequest `json:"translation"`
	Edge        int          `json:"edge"`
	Navigated   bool         `json:"navigated"`
	Garage      string       `json:"garage"`
}

type DropResponse struct {
	Kind        string `json:"kind"`
	TruckID     string `json:"truck_id"`
	Spot        string `json:"spot,omitempty"`
	SwappedWith string `json:"swapped_with,omitempty"`
}

type PendingChangeResponse struct {
	TruckID      string `json:"truck_id"`
	OriginalSpot string `json:"original_spot"`
	NewSpot      string `json:"new_spot"`
}

type ChangesResponse struct {
	Changes []PendingChangeResponse `json:"changes"`
}

type SpotChangeResponse struct {
	TruckID string `json:"truck_id"`
	NewSpot string `json:"new_spot"`
}

type CommitResponse struct {
	Saved []SpotChangeResponse `json:"saved"`
}

type SlotPreviewResponse struct {
	Slot      int     `json:"slot"`
	Position  string  `json:"position"`
	Available float64 `json:"available"`
	Fits      bool    `json:"fits"`
}

type LanePreviewResponse struct {
	Lane           string                `json:"lane"`
	OccupiedSlots  []int                 `json:"occupied_slots"`
	OccupiedLength float64               `json:"occupied_length"`
	Fits           bool                  `json:"fits"`
	Slots          []SlotPreviewResponse `json:"slots"`
}

type PreviewResponse struct {
	Garage  string                `json:"garage"`
	TruckID string                `json:"truck_id"`
	Lanes   []LanePreviewResponse `json:"lanes"`
}
