package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SystemBuilders/CelLock/internal/entitystore"
	"github.com/SystemBuilders/CelLock/internal/lock"
	"github.com/SystemBuilders/CelLock/internal/lockbackend"
	"github.com/SystemBuilders/CelLock/internal/message"
)

// errorStatus maps a domain error to the HTTP status it travels as.
// Contention is retryable and says so; backend loss is a gateway
// problem, not a client one.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, lock.ErrContended):
		return http.StatusServiceUnavailable
	case errors.Is(err, lockbackend.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, entitystore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entitystore.ErrAlreadyExists),
		errors.Is(err, entitystore.ErrVersionConflict),
		errors.Is(err, message.ErrRelationExists):
		return http.StatusConflict
	case errors.Is(err, message.ErrInvalidTransition),
		errors.Is(err, message.ErrMalformedReference),
		errors.Is(err, message.ErrNoBoxForClassURL),
		errors.Is(err, message.ErrLinkNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	http.Error(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	byteData, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(byteData)
}
