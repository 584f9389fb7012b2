package models

// ProcessedAgentDataFilters defines the available filter options for listing
// processed agent data. The zero value matches every row.
type ProcessedAgentDataFilters struct {
	RoadState string `json:"road_state" schema:"road_state"`
}

// IsEmpty reports whether no filter is set
func (f ProcessedAgentDataFilters) IsEmpty() bool {
	return f.RoadState == ""
}
