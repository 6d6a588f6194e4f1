package models

import "fmt"

var InvalidRecordErr = fmt.Errorf("invalid option record")
var InvalidGridParametersErr = fmt.Errorf("invalid grid parameters")
var NumericalInstabilityErr = fmt.Errorf("numerical instability")
var GridTooLargeErr = fmt.Errorf("grid size exceeded")

type ErrorDTO struct {
	Msg string `json:"msg"`
}
