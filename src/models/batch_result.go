package models

import (
	"time"

	"github.com/google/uuid"
)

type PricedRecord struct {
	Index  int           `json:"index"`
	Record *OptionRecord `json:"record"`
	Result PriceResult   `json:"result"`
}

type SkippedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// BatchResult is a partial-success result: priced and skipped records are both reported.
type BatchResult struct {
	RunID      uuid.UUID       `json:"run_id"`
	PriceSteps int             `json:"p_steps"`
	TimeSteps  int             `json:"t_steps"`
	Priced     []PricedRecord  `json:"priced"`
	Skipped    []SkippedRecord `json:"skipped"`
	Elapsed    time.Duration   `json:"elapsed"`
}

func (b *BatchResult) Total() int {
	return len(b.Priced) + len(b.Skipped)
}
