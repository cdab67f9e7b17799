package dto

type GarageResponse struct {
	Area         string   `json:"area"`
	Width        float64  `json:"width"`
	Length       float64  `json:"length"`
	TopMargin    float64  `json:"top_margin"`
	BottomMargin float64  `json:"bottom_margin"`
	LaneWidth    float64  `json:"lane_width"`
	LanePadding  float64  `json:"lane_padding"`
	LaneLength   float64  `json:"lane_length"`
	Lanes        []string `json:"lanes"`
}

type YardConfigResponse struct {
	Columns       int     `json:"columns"`
	Width         float64 `json:"width"`
	LaneWidth     float64 `json:"lane_width"`
	LanePadding   float64 `json:"lane_padding"`
	MinLaneLength float64 `json:"min_lane_length"`
}

type SiteResponse struct {
	Garages []GarageResponse   `json:"garages"`
	Yard    YardConfigResponse `json:"yard"`
}

type PlacementResponse struct {
	TruckID string  `json:"truck_id"`
	Spot    string  `json:"spot"`
	Slot    int     `json:"slot,omitempty"`
	Column  int     `json:"column"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Length  float64 `json:"length"`
	Pending bool    `json:"pending"`
}

type LaneResponse struct {
	Lane       string              `json:"lane"`
	X          float64             `json:"x"`
	Width      float64             `json:"width"`
	Length     float64             `json:"length"`
	Placements []PlacementResponse `json:"placements"`
}

type GarageLayoutResponse struct {
	Area  string         `json:"area"`
	Width float64        `json:"width"`
	Lanes []LaneResponse `json:"lanes"`
}

type YardColumnResponse struct {
	Column     int                 `json:"column"`
	X          float64             `json:"x"`
	Height     float64             `json:"height"`
	Placements []PlacementResponse `json:"placements"`
}

type YardLayoutResponse struct {
	Width   float64              `json:"width"`
	Height  float64              `json:"height"`
	Columns []YardColumnResponse `json:"columns"`
}

type LayoutResponse struct {
	Garages []GarageLayoutResponse `json:"garages"`
	Yard    YardLayoutResponse     `json:"yard"`
}
