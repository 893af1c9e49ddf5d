package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmidable/parkingsystem/internal/domain"
)

const (
	codeInvalidRequestBody  = "invalid_request_body"
	codeRegistrationMissing = "registration_required"
	codeUnsupportedVehicle  = "unsupported_vehicle_type"
	codeInvalidInterval     = "invalid_interval"
	codeInvalidSpotID       = "invalid_spot_id"
	codeLotFull             = "no_spot_available"
	codeDuplicateTicket     = "duplicate_open_ticket"
	codeTicketNotFound      = "ticket_not_found"
	codeSpotNotFound        = "spot_not_found"
	codeStorageUnavailable  = "storage_unavailable"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the core's error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRegistrationRequired):
		writeError(w, http.StatusBadRequest, codeRegistrationMissing, err.Error())
	case errors.Is(err, domain.ErrUnsupportedVehicleType):
		writeError(w, http.StatusBadRequest, codeUnsupportedVehicle, err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, codeInvalidInterval, err.Error())
	case errors.Is(err, domain.ErrSpotNotAvailable):
		writeError(w, http.StatusConflict, codeLotFull, err.Error())
	case errors.Is(err, domain.ErrDuplicateOpenTicket):
		writeError(w, http.StatusConflict, codeDuplicateTicket, err.Error())
	case errors.Is(err, domain.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
	case errors.Is(err, domain.ErrSpotNotFound):
		writeError(w, http.StatusNotFound, codeSpotNotFound, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
