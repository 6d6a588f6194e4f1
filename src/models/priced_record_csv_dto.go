package models

type PricedRecordCsvDTO struct {
	Index         int     `csv:"index"`
	QuoteUnixTime float64 `csv:"quote_unixtime"`
	Underlying    float64 `csv:"underlying"`
	Strike        float64 `csv:"strike"`
	DTE           float64 `csv:"dte"`
	CallIV        float64 `csv:"call_iv"`
	PutIV         float64 `csv:"put_iv"`
	RiskFreeRate  float64 `csv:"risk_free_rate"`
	CallPrice     float64 `csv:"call_price"`
	CallMid       float64 `csv:"call_mid"`
	CallDelta     float64 `csv:"call_delta"`
	CallGamma     float64 `csv:"call_gamma"`
	CallTheta     float64 `csv:"call_theta"`
	PutPrice      float64 `csv:"put_price"`
	PutMid        float64 `csv:"put_mid"`
	PutDelta      float64 `csv:"put_delta"`
	PutGamma      float64 `csv:"put_gamma"`
	PutTheta      float64 `csv:"put_theta"`
}

func (p PricedRecord) ToCsvDTO() *PricedRecordCsvDTO {
	dto := &PricedRecordCsvDTO{
		Index:     p.Index,
		CallPrice: p.Result.CallPrice,
		CallDelta: p.Result.Call.Delta,
		CallGamma: p.Result.Call.Gamma,
		CallTheta: p.Result.Call.Theta,
		PutPrice:  p.Result.PutPrice,
		PutDelta:  p.Result.Put.Delta,
		PutGamma:  p.Result.Put.Gamma,
		PutTheta:  p.Result.Put.Theta,
	}

	if rec := p.Record; rec != nil {
		dto.QuoteUnixTime = rec.Time
		dto.Underlying = rec.Underlying
		dto.Strike = rec.Strike
		dto.DTE = rec.DTE
		dto.CallIV = rec.Call.IV
		dto.PutIV = rec.Put.IV
		dto.RiskFreeRate = rec.RiskFreeRate
		dto.CallMid = rec.Call.Mid
		dto.PutMid = rec.Put.Mid
	}

	return dto
}
