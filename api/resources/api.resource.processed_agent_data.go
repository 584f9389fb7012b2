// FilePath: api/resources/api.resource.processed_agent_data.go
package resources

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/roadvision/store/internal/agentservice"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const maxBodyBytes = 1 << 20

var filterDecoder = newFilterDecoder()

func newFilterDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ProcessedAgentDataHandlers encapsulates the processed agent data HTTP handlers
type ProcessedAgentDataHandlers struct {
	service agentservice.ProcessedAgentDataService
}

// CreateResponse is the body returned by a successful create
type CreateResponse struct {
	Message string `json:"message"`
}

// @Summary Store processed agent data
// @Description Validate a submission, persist it and push it to live subscribers
// @Tags processed_agent_data
// @Accept json
// @Produce json
// @Param data body models.ProcessedAgentDataRequest true "Agent submission"
// @Success 200 {object} resources.CreateResponse
// @Failure 500 {object} errors.APIError
// @Router /processed_agent_data/ [post]
func (h *ProcessedAgentDataHandlers) Create(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	req, err := decodeRequest(r)
	if err == nil {
		_, err = h.service.Create(r.Context(), req)
	}
	if err != nil {
		// Validation failures share the 500 mapping with storage failures here.
		var apiErr *errors.APIError
		if errors.IsValidation(err) {
			apiErr = errors.NewValidationError("Data created wrong", err).WithCode(http.StatusInternalServerError)
		} else {
			apiErr = errors.NewInternalError("Data created wrong", err)
		}
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, CreateResponse{Message: "Data created successfully"})
}

// @Summary Get processed agent data by ID
// @Tags processed_agent_data
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} models.ProcessedAgentDataInDB
// @Failure 404 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /processed_agent_data/{id} [get]
func (h *ProcessedAgentDataHandlers) Get(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}

	row, err := h.service.Get(r.Context(), id)
	if err != nil {
		// Internal detail is not exposed on this path.
		if errors.IsNotFound(err) {
			respondWithError(w, errors.NewNotFoundError("Data not found", err).WithRequestID(requestID))
		} else {
			respondWithError(w, errors.NewInternalError("Data read incorrectly", err).WithRequestID(requestID))
		}
		return
	}

	respondWithJSON(w, http.StatusOK, row)
}

// @Summary List processed agent data
// @Description Return every stored row, optionally filtered by road state
// @Tags processed_agent_data
// @Produce json
// @Param road_state query string false "Only rows with this road state"
// @Success 200 {array} models.ProcessedAgentDataInDB
// @Failure 500 {object} errors.APIError
// @Router /processed_agent_data/ [get]
func (h *ProcessedAgentDataHandlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.ProcessedAgentDataFilters
	if err := filterDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	rows, err := h.service.List(r.Context(), filters)
	if err != nil {
		respondWithError(w, errors.NewDatabaseError(errors.Detail(err), err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, rows)
}

// @Summary Replace processed agent data
// @Description Overwrite every field of an existing row
// @Tags processed_agent_data
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param data body models.ProcessedAgentDataRequest true "Agent submission"
// @Success 200 {object} models.ProcessedAgentDataInDB
// @Failure 404 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /processed_agent_data/{id} [put]
func (h *ProcessedAgentDataHandlers) Update(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}

	req, err := decodeRequest(r)
	var row *models.ProcessedAgentDataInDB
	if err == nil {
		row, err = h.service.Update(r.Context(), id, req)
	}
	if err != nil {
		respondWithError(w, mutationError(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, row)
}

// @Summary Delete processed agent data
// @Description Delete a row and return it as it was before deletion
// @Tags processed_agent_data
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} models.ProcessedAgentDataInDB
// @Failure 404 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /processed_agent_data/{id} [delete]
func (h *ProcessedAgentDataHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}

	row, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithError(w, mutationError(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, row)
}

// mutationError maps update/delete failures: 404 for a missing row, 500
// carrying the underlying message for everything else.
func mutationError(err error) *errors.APIError {
	switch errors.KindOf(err) {
	case errors.ErrorTypeNotFound:
		return errors.NewNotFoundError("Data not found", err)
	case errors.ErrorTypeValidation:
		return errors.NewValidationError(errors.Detail(err), err).WithCode(http.StatusInternalServerError)
	default:
		return errors.NewDatabaseError(errors.Detail(err), err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid id: "+raw, err).WithRequestID(requestID))
		return 0, false
	}
	return id, true
}

func decodeRequest(r *http.Request) (*models.ProcessedAgentDataRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewValidationError("failed to read request body", err)
	}
	return models.DecodeProcessedAgentDataRequest(body)
}
