package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_inventory/internal/adapters/observability"
	"hotel_inventory/internal/domain"
)

// problem is an RFC 7807 body with the rejection code and per-field details.
type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Code   string              `json:"code"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail, code string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Code: code, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// errMalformed marks a request body that is not JSON at all.
type errMalformed struct{ msg string }

func (e errMalformed) Error() string { return e.msg }

func statusFor(err error) (status int, code string) {
	var bad errMalformed
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "internal"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "capacity_exceeded"
	case errors.Is(err, domain.ErrDuplicateRoomType):
		return http.StatusUnprocessableEntity, "duplicate_room_type"
	case errors.Is(err, domain.ErrReference):
		return http.StatusUnprocessableEntity, "reference"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError renders err as a problem. Server-side failures are logged and
// their cause stays out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	title := http.StatusText(status)

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("route", routeOf(r)).
			Str("method", r.Method).
			Msg("request failed")
		writeProblem(w, status, title, "the request could not be completed", code, nil)
		return
	}

	observability.ObserveRejection(code)
	detail := err.Error()
	var fields []domain.FieldError
	var de *domain.Error
	if errors.As(err, &de) {
		detail, fields = de.Message, de.Fields
	}
	writeProblem(w, status, title, detail, code, fields)
}
