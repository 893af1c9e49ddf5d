package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmidable/parkingsystem/internal/app"
	"github.com/charmidable/parkingsystem/internal/domain"
)

// SessionService is the minimal surface the session handlers need.
type SessionService interface {
	ProcessEntry(ctx context.Context, vehicleReg string, vehicleType domain.VehicleType) (app.EntryResult, error)
	ProcessExit(ctx context.Context, vehicleReg string) (app.ExitResult, error)
}

// HandleEntry returns the handler for vehicle entry requests.
func HandleEntry(svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		vehicleType, err := domain.ParseVehicleType(req.VehicleType)
		if err != nil {
			entriesTotal.WithLabelValues(outcomeRejected).Inc()
			writeDomainError(w, err)
			return
		}

		res, err := svc.ProcessEntry(r.Context(), req.Registration, vehicleType)
		if err != nil {
			entriesTotal.WithLabelValues(outcomeRejected).Inc()
			writeDomainError(w, err)
			return
		}
		entriesTotal.WithLabelValues(outcomeOK).Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(entryResponse{
			TicketID: res.TicketID,
			SpotID:   res.SpotID,
			InTime:   res.InTime,
		})
	}
}

// HandleExit returns the handler for vehicle exit requests.
func HandleExit(svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exitRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.ProcessExit(r.Context(), req.Registration)
		if err != nil {
			exitsTotal.WithLabelValues(outcomeRejected).Inc()
			writeDomainError(w, err)
			return
		}
		exitsTotal.WithLabelValues(outcomeOK).Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(exitResponse{
			TicketID: res.TicketID,
			SpotID:   res.SpotID,
			Price:    res.Price,
			InTime:   res.InTime,
			OutTime:  res.OutTime,
		})
	}
}

type entryRequest struct {
	Registration string `json:"registration"`
	VehicleType  string `json:"vehicle_type"`
}

type entryResponse struct {
	TicketID int64     `json:"ticket_id"`
	SpotID   int       `json:"spot_id"`
	InTime   time.Time `json:"in_time"`
}

type exitRequest struct {
	Registration string `json:"registration"`
}

type exitResponse struct {
	TicketID int64     `json:"ticket_id"`
	SpotID   int       `json:"spot_id"`
	Price    float64   `json:"price"`
	InTime   time.Time `json:"in_time"`
	OutTime  time.Time `json:"out_time"`
}
