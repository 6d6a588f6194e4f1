package models

// OptionRecordCsvDTO mirrors the 22 columns written by the chain preprocessing step.
// Field order matters: rows are decoded by position.
type OptionRecordCsvDTO struct {
	QuoteUnixTime  float64 `csv:"QUOTE_UNIXTIME"`
	UnderlyingLast float64 `csv:"UNDERLYING_LAST"`
	ExpireUnix     float64 `csv:"EXPIRE_UNIX"`
	DTE            float64 `csv:"DTE"`
	Strike         float64 `csv:"STRIKE"`
	CDelta         float64 `csv:"C_DELTA"`
	CGamma         float64 `csv:"C_GAMMA"`
	CVega          float64 `csv:"C_VEGA"`
	CTheta         float64 `csv:"C_THETA"`
	CRho           float64 `csv:"C_RHO"`
	CIV            float64 `csv:"C_IV"`
	CVolume        float64 `csv:"C_VOLUME"`
	CMidPrice      float64 `csv:"C_MID_PRICE"`
	PDelta         float64 `csv:"P_DELTA"`
	PGamma         float64 `csv:"P_GAMMA"`
	PVega          float64 `csv:"P_VEGA"`
	PTheta         float64 `csv:"P_THETA"`
	PRho           float64 `csv:"P_RHO"`
	PIV            float64 `csv:"P_IV"`
	PVolume        float64 `csv:"P_VOLUME"`
	PMidPrice      float64 `csv:"P_MID_PRICE"`
	RiskFreeRate   float64 `csv:"RISK_FREE_RATE"`
}

const OptionRecordCsvColumns = 22

func (dto *OptionRecordCsvDTO) ToModel() *OptionRecord {
	return &OptionRecord{
		Time:       dto.QuoteUnixTime,
		Underlying: dto.UnderlyingLast,
		ExpireTime: dto.ExpireUnix,
		DTE:        dto.DTE,
		Strike:     dto.Strike,
		Call: OptionSide{
			Delta:  dto.CDelta,
			Gamma:  dto.CGamma,
			Vega:   dto.CVega,
			Theta:  dto.CTheta,
			Rho:    dto.CRho,
			IV:     dto.CIV,
			Volume: dto.CVolume,
			Mid:    dto.CMidPrice,
		},
		Put: OptionSide{
			Delta:  dto.PDelta,
			Gamma:  dto.PGamma,
			Vega:   dto.PVega,
			Theta:  dto.PTheta,
			Rho:    dto.PRho,
			IV:     dto.PIV,
			Volume: dto.PVolume,
			Mid:    dto.PMidPrice,
		},
		RiskFreeRate: dto.RiskFreeRate,
	}
}
