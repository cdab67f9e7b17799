package dto

type TruckResponse struct {
	TruckID         string   `json:"truck_id"`
	Name            string   `json:"name"`
	Color           string   `json:"color"`
	Serial          string   `json:"serial"`
	Spot            string   `json:"spot"`
	Length          float64  `json:"length"`
	FullLength      *float64 `json:"full_length"`
	EffectiveLength float64  `json:"effective_length"`
}

type ListTrucksResponse struct {
	Trucks []TruckResponse `json:"trucks"`
}
