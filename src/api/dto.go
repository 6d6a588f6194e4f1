package api

import (
	"github.com/jiaming2012/gridpricer/src/models"
	"github.com/jiaming2012/gridpricer/src/report"
)

// PriceRequestDTO is decoded from the query string of GET /price. IV applies to both sides
// unless CallIV or PutIV is given.
type PriceRequestDTO struct {
	Underlying   float64 `schema:"underlying,required"`
	Strike       float64 `schema:"strike,required"`
	DTE          float64 `schema:"dte,required"`
	IV           float64 `schema:"iv"`
	CallIV       float64 `schema:"call_iv"`
	PutIV        float64 `schema:"put_iv"`
	RiskFreeRate float64 `schema:"rfr"`
	PriceSteps   int     `schema:"p_steps"`
	TimeSteps    int     `schema:"t_steps"`
}

func (r *PriceRequestDTO) ToModel() *models.OptionRecord {
	callIV, putIV := r.IV, r.IV
	if r.CallIV != 0 {
		callIV = r.CallIV
	}

	if r.PutIV != 0 {
		putIV = r.PutIV
	}

	return &models.OptionRecord{
		Underlying:   r.Underlying,
		Strike:       r.Strike,
		DTE:          r.DTE,
		Call:         models.OptionSide{IV: callIV},
		Put:          models.OptionSide{IV: putIV},
		RiskFreeRate: r.RiskFreeRate,
	}
}

type ClosedFormDTO struct {
	CallPrice float64 `json:"call_price"`
	PutPrice  float64 `json:"put_price"`
}

type PriceResponseDTO struct {
	PriceSteps int                  `json:"p_steps"`
	TimeSteps  int                  `json:"t_steps"`
	Record     *models.OptionRecord `json:"record"`
	Result     models.PriceResult   `json:"result"`
	ClosedForm ClosedFormDTO        `json:"closed_form"`
}

type BatchRequestDTO struct {
	Records    []*models.OptionRecord `json:"records"`
	PriceSteps int                    `json:"p_steps"`
	TimeSteps  int                    `json:"t_steps"`
	Workers    int                    `json:"workers"`
}

type BatchResponseDTO struct {
	Result  *models.BatchResult `json:"result"`
	Summary report.Summary      `json:"summary"`
}
