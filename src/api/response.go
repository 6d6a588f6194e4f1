package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jiaming2012/gridpricer/src/models"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func SetResponse[T any](obj *T, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(obj); err != nil {
		return fmt.Errorf("SetResponse: encode: %w", err)
	}

	return nil
}

func SetErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

// statusFor maps pricing errors onto an error type and http status.
func statusFor(err error) (string, int) {
	switch {
	case errors.Is(err, models.InvalidRecordErr):
		return "invalid_record", http.StatusBadRequest
	case errors.Is(err, models.InvalidGridParametersErr):
		return "invalid_grid_parameters", http.StatusBadRequest
	case errors.Is(err, models.GridTooLargeErr):
		return "grid_too_large", http.StatusRequestEntityTooLarge
	case errors.Is(err, models.NumericalInstabilityErr):
		return "numerical_instability", http.StatusUnprocessableEntity
	default:
		return "internal", http.StatusInternalServerError
	}
}
