// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/models"
)

// ProcessedAgentDataRepository owns the SQL for processed_agent_data. Every
// operation runs on a caller-supplied transaction; the repository never
// opens or commits one itself.
type ProcessedAgentDataRepository interface {
	database.Repository
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, tx database.Transaction, data *models.ProcessedAgentData) (*models.ProcessedAgentDataInDB, error)
	Get(ctx context.Context, tx database.Transaction, id int64) (*models.ProcessedAgentDataInDB, error)
	List(ctx context.Context, tx database.Transaction, filters models.ProcessedAgentDataFilters) ([]*models.ProcessedAgentDataInDB, error)
	Replace(ctx context.Context, tx database.Transaction, id int64, data *models.ProcessedAgentData) (*models.ProcessedAgentDataInDB, error)
	Remove(ctx context.Context, tx database.Transaction, id int64) (*models.ProcessedAgentDataInDB, error)
}
