package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/recruitment"
	redisclient "github.com/hackgods/vortex-care/internal/redis"
	"github.com/hackgods/vortex-care/internal/store"
	"github.com/hackgods/vortex-care/internal/validate"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

var errBadBody = errors.New("could not parse JSON body")

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, v *validate.Validator, dst any, clean ...func()) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", errBadBody, err.Error())
	}
	for _, fn := range clean {
		fn()
	}
	return v.Struct(dst)
}

// handleError maps service errors to HTTP responses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "validation_failed", Details: "one or more fields are invalid", Fields: verr.Fields,
		})
	case errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())

	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, identity.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrAccountDeactivated):
		writeError(w, http.StatusForbidden, "account_deactivated", err.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, identity.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "email_already_exists", err.Error())
	case errors.Is(err, identity.ErrInvalidRole):
		writeError(w, http.StatusUnprocessableEntity, "invalid_role", err.Error())

	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, clinic.ErrSlotAlreadyBooked):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, clinic.ErrSlotUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "slot_unavailable", err.Error())
	case errors.Is(err, clinic.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, clinic.ErrInvalidDate),
		errors.Is(err, clinic.ErrServiceUnavailable),
		errors.Is(err, clinic.ErrInvalidStatus),
		errors.Is(err, clinic.ErrInvalidRating),
		errors.Is(err, recruitment.ErrInvalidStatus),
		errors.Is(err, recruitment.ErrInvalidSalary):
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())

	case errors.Is(err, redisclient.ErrLockNotAcquired):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusConflict, "busy", "another write is in progress, please retry shortly")

	default:
		slog.Error("request failed",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
