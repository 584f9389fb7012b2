package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/roadvision/store/docs"
	"github.com/roadvision/store/internal/broadcast"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// SystemHandlers serves health, metrics and API documentation
type SystemHandlers struct {
	registry   *broadcast.Registry
	monitoring *monitoring.Service
	db         Pinger
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type metricsResponse struct {
	Subscribers int `json:"subscribers"`
	monitoring.EventMetrics
}

func (h *SystemHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			respondWithError(w, errors.NewUnavailableError("database unreachable", err).WithRequestID(nuts.NID("req", 12)))
			return
		}
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: nuts.GetVersion()})
}

func (h *SystemHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, metricsResponse{
		Subscribers:  h.registry.Count(),
		EventMetrics: h.monitoring.GetEventMetrics(),
	})
}

func (h *SystemHandlers) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc := docs.SwaggerInfo.ReadDoc()
	if doc == "" {
		respondWithError(w, errors.NewInternalError("api documentation unavailable", nil).WithRequestID(nuts.NID("req", 12)))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
