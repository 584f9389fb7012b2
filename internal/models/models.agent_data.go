// FilePath: internal/models/models.agent_data.go
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roadvision/store/internal/errors"
)

// GpsData is a validated GPS fix
type GpsData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AccelerometerData is a validated accelerometer sample
type AccelerometerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AgentData is one validated agent reading
type AgentData struct {
	Accelerometer AccelerometerData `json:"accelerometer"`
	GPS           GpsData           `json:"gps"`
	Timestamp     Timestamp         `json:"timestamp"`
}

// ProcessedAgentData is a validated submission, ready to be persisted
type ProcessedAgentData struct {
	RoadState string    `json:"road_state"`
	AgentData AgentData `json:"agent_data"`
}

// ProcessedAgentDataInDB is the flat row stored in processed_agent_data and
// returned to API callers.
type ProcessedAgentDataInDB struct {
	ID        int64     `json:"id" db:"id"`
	RoadState string    `json:"road_state" db:"road_state"`
	X         float64   `json:"x" db:"x"`
	Y         float64   `json:"y" db:"y"`
	Z         float64   `json:"z" db:"z"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Timestamp Timestamp `json:"timestamp" db:"timestamp"`
}

// Flatten maps the nested submission onto a row with the given id.
func (d *ProcessedAgentData) Flatten(id int64) *ProcessedAgentDataInDB {
	return &ProcessedAgentDataInDB{
		ID:        id,
		RoadState: d.RoadState,
		X:         d.AgentData.Accelerometer.X,
		Y:         d.AgentData.Accelerometer.Y,
		Z:         d.AgentData.Accelerometer.Z,
		Latitude:  d.AgentData.GPS.Latitude,
		Longitude: d.AgentData.GPS.Longitude,
		Timestamp: d.AgentData.Timestamp,
	}
}

// Float is a finite JSON number that also accepts numeric strings.
type Float float64

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("input should be a valid number, unable to parse %s", string(data))
	}
	*f = Float(v)
	return nil
}

// GpsRequest is the submitted GPS object
type GpsRequest struct {
	Latitude  *Float `json:"latitude"`
	Longitude *Float `json:"longitude"`
}

// AccelerometerRequest is the submitted accelerometer object
type AccelerometerRequest struct {
	X *Float `json:"x"`
	Y *Float `json:"y"`
	Z *Float `json:"z"`
}

// AgentDataRequest is the submitted agent_data object. Timestamp holds
// either a decoded JSON value or, for in-process callers, a time.Time.
type AgentDataRequest struct {
	Accelerometer *AccelerometerRequest `json:"accelerometer"`
	GPS           *GpsRequest           `json:"gps"`
	Timestamp     any                   `json:"timestamp"`
}

// ProcessedAgentDataRequest is the create/update request body
type ProcessedAgentDataRequest struct {
	RoadState *string           `json:"road_state"`
	AgentData *AgentDataRequest `json:"agent_data"`
}

// DecodeProcessedAgentDataRequest decodes a request body, reporting
// malformed JSON as a validation error.
func DecodeProcessedAgentDataRequest(data []byte) (*ProcessedAgentDataRequest, error) {
	req := &ProcessedAgentDataRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, errors.NewValidationError("invalid request body: "+err.Error(), err)
	}
	return req, nil
}

// Validate builds the validated shape. Every field is required; a bad
// timestamp yields a validation error carrying the parse failure reason.
func (r *ProcessedAgentDataRequest) Validate() (*ProcessedAgentData, error) {
	var missing []string
	need := func(path string, v *Float) float64 {
		if v == nil {
			missing = append(missing, path)
			return 0
		}
		return float64(*v)
	}

	out := &ProcessedAgentData{}
	if r.RoadState == nil {
		missing = append(missing, "road_state")
	} else {
		out.RoadState = *r.RoadState
	}

	if r.AgentData == nil {
		missing = append(missing, "agent_data")
		return nil, fieldsRequired(missing)
	}

	if acc := r.AgentData.Accelerometer; acc == nil {
		missing = append(missing, "agent_data.accelerometer")
	} else {
		out.AgentData.Accelerometer = AccelerometerData{
			X: need("agent_data.accelerometer.x", acc.X),
			Y: need("agent_data.accelerometer.y", acc.Y),
			Z: need("agent_data.accelerometer.z", acc.Z),
		}
	}

	if gps := r.AgentData.GPS; gps == nil {
		missing = append(missing, "agent_data.gps")
	} else {
		out.AgentData.GPS = GpsData{
			Latitude:  need("agent_data.gps.latitude", gps.Latitude),
			Longitude: need("agent_data.gps.longitude", gps.Longitude),
		}
	}

	if r.AgentData.Timestamp == nil {
		missing = append(missing, "agent_data.timestamp")
	}
	if len(missing) > 0 {
		return nil, fieldsRequired(missing)
	}

	ts, err := ParseTimestamp(r.AgentData.Timestamp)
	if err != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("ERROR. Unable to parse timestamp. Reason: %v", err), err)
	}
	out.AgentData.Timestamp = NewTimestamp(ts)
	return out, nil
}

func fieldsRequired(paths []string) error {
	return errors.NewValidationError("field required: "+strings.Join(paths, ", "), nil).
		WithDetails(paths)
}
