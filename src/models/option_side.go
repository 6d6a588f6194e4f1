package models

// OptionSide holds the market quote and Greeks for one side (call or put) of a strike.
type OptionSide struct {
	Delta  float64 `json:"delta"`
	Gamma  float64 `json:"gamma"`
	Vega   float64 `json:"vega"`
	Theta  float64 `json:"theta"`
	Rho    float64 `json:"rho"`
	IV     float64 `json:"iv"`
	Volume float64 `json:"volume"`
	Mid    float64 `json:"mid"`
}
