package agentservice

import (
	"context"

	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ProcessedAgentDataService is the CRUD contract over processed agent data
type ProcessedAgentDataService interface {
	Create(ctx context.Context, req *models.ProcessedAgentDataRequest) (*models.ProcessedAgentDataInDB, error)
	Get(ctx context.Context, id int64) (*models.ProcessedAgentDataInDB, error)
	List(ctx context.Context, filters models.ProcessedAgentDataFilters) ([]*models.ProcessedAgentDataInDB, error)
	Update(ctx context.Context, id int64, req *models.ProcessedAgentDataRequest) (*models.ProcessedAgentDataInDB, error)
	Delete(ctx context.Context, id int64) (*models.ProcessedAgentDataInDB, error)
}

var _ ProcessedAgentDataService = (*AgentService)(nil)

// Create validates and stores a submission, then notifies publishers.
// Nothing is published unless the insert committed.
func (s *AgentService) Create(ctx context.Context, req *models.ProcessedAgentDataRequest) (*models.ProcessedAgentDataInDB, error) {
	data, err := req.Validate()
	if err != nil {
		return nil, err
	}

	var created *models.ProcessedAgentDataInDB
	err = database.WithTransaction(ctx, s.ProcessedAgentData, func(tx database.Transaction) error {
		created, err = s.ProcessedAgentData.Insert(ctx, tx, data)
		return err
	})
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[AgentService] Stored processed agent data %d (road_state=%s)", created.ID, created.RoadState)
	s.publish(ctx, created)
	s.events.Emit(EventCreated, created.ID)
	return created, nil
}

// Get returns a single row by id
func (s *AgentService) Get(ctx context.Context, id int64) (*models.ProcessedAgentDataInDB, error) {
	var row *models.ProcessedAgentDataInDB
	err := database.WithTransaction(ctx, s.ProcessedAgentData, func(tx database.Transaction) error {
		var err error
		row, err = s.ProcessedAgentData.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// List returns all rows matching filters, in insertion order
func (s *AgentService) List(ctx context.Context, filters models.ProcessedAgentDataFilters) ([]*models.ProcessedAgentDataInDB, error) {
	var rows []*models.ProcessedAgentDataInDB
	err := database.WithTransaction(ctx, s.ProcessedAgentData, func(tx database.Transaction) error {
		var err error
		rows, err = s.ProcessedAgentData.List(ctx, tx, filters)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update fully replaces the row and returns the values as written
func (s *AgentService) Update(ctx context.Context, id int64, req *models.ProcessedAgentDataRequest) (*models.ProcessedAgentDataInDB, error) {
	data, err := req.Validate()
	if err != nil {
		return nil, err
	}

	var updated *models.ProcessedAgentDataInDB
	err = database.WithTransaction(ctx, s.ProcessedAgentData, func(tx database.Transaction) error {
		updated, err = s.ProcessedAgentData.Replace(ctx, tx, id, data)
		return err
	})
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[AgentService] Replaced processed agent data %d", id)
	s.events.Emit(EventUpdated, id)
	return updated, nil
}

// Delete removes the row and returns it as it was before deletion
func (s *AgentService) Delete(ctx context.Context, id int64) (*models.ProcessedAgentDataInDB, error) {
	var deleted *models.ProcessedAgentDataInDB
	err := database.WithTransaction(ctx, s.ProcessedAgentData, func(tx database.Transaction) error {
		var err error
		deleted, err = s.ProcessedAgentData.Remove(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[AgentService] Deleted processed agent data %d", id)
	s.events.Emit(EventDeleted, id)
	return deleted, nil
}
