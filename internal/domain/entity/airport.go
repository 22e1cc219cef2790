package entity

// Airport holds the geographic data used to enrich flight records
type Airport struct {
	Code    string  `json:"code"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
