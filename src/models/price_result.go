package models

// Greeks read off a solved price grid at the spot node. Theta is per year.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
}

type PriceResult struct {
	CallPrice float64 `json:"call_price"`
	PutPrice  float64 `json:"put_price"`
	Call      Greeks  `json:"call_greeks"`
	Put       Greeks  `json:"put_greeks"`
}

func (p PriceResult) Price(optionType OptionType) float64 {
	if optionType == Put {
		return p.PutPrice
	}

	return p.CallPrice
}
