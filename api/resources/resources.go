// FilePath: api/resources/resources.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roadvision/store/internal/agentservice"
	"github.com/roadvision/store/internal/broadcast"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	ProcessedAgentData *ProcessedAgentDataHandlers
	Live               *LiveHandlers
	System             *SystemHandlers
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewResources creates a new Resources instance
func NewResources(
	svc agentservice.ProcessedAgentDataService,
	registry *broadcast.Registry,
	opts broadcast.Options,
	mon *monitoring.Service,
	db Pinger,
) *Resources {
	return &Resources{
		ProcessedAgentData: &ProcessedAgentDataHandlers{service: svc},
		Live:               &LiveHandlers{registry: registry, opts: opts},
		System:             &SystemHandlers{registry: registry, monitoring: mon, db: db},
	}
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to encode response", err).WithRequestID(nuts.NID("req", 12)))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		nuts.L.Errorf("[API] Failed to write response: %v", err)
	}
}
