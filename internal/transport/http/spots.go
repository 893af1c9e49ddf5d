package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SpotQueries is the read-only surface for dashboards and CLIs.
type SpotQueries interface {
	SpotAvailable(ctx context.Context, spotID int) (bool, error)
	SpotCountByType(ctx context.Context, vehicleType domain.VehicleType) (int, error)
}

// HandleSpotAvailability returns the handler for GET /spots/{id}/availability.
func HandleSpotAvailability(svc SpotQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spotID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidSpotID, "spot id must be an integer")
			return
		}

		available, err := svc.SpotAvailable(r.Context(), spotID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spotAvailabilityResponse{
			SpotID:    spotID,
			Available: available,
		})
	}
}

// HandleSpotCount returns the handler for GET /spots/count?type=CAR.
func HandleSpotCount(svc SpotQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleType, err := domain.ParseVehicleType(r.URL.Query().Get("type"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		count, err := svc.SpotCountByType(r.Context(), vehicleType)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spotCountResponse{
			Type:  string(vehicleType),
			Count: count,
		})
	}
}

type spotAvailabilityResponse struct {
	SpotID    int  `json:"spot_id"`
	Available bool `json:"available"`
}

type spotCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}
