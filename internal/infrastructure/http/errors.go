package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrMalformedRate),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrUnknownMessage):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrConflict),
		errors.Is(err, domain.ErrInvalidVersionTransition),
		errors.Is(err, domain.ErrAlreadyInstantiated):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotInstantiated):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErr maps a service error to its status. Internal errors are logged and
// their text is not returned to the caller.
func writeErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logx.L().Error("http.internal_error", zap.Error(err))
		writeError(w, code, http.StatusText(code))
		return
	}
	writeError(w, code, err.Error())
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
