// FilePath: internal/repository/sqlstore/sqlstore.processed_agent_data.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const processedAgentDataColumns = `id, road_state, x, y, z, latitude, longitude, "timestamp"`

var schemaByDriver = map[string]string{
	config.DriverPostgres: `
		CREATE TABLE IF NOT EXISTS processed_agent_data (
			id SERIAL PRIMARY KEY,
			road_state VARCHAR,
			x DOUBLE PRECISION,
			y DOUBLE PRECISION,
			z DOUBLE PRECISION,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			"timestamp" TIMESTAMP
		)`,
	config.DriverSQLite: `
		CREATE TABLE IF NOT EXISTS processed_agent_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			road_state TEXT,
			x REAL,
			y REAL,
			z REAL,
			latitude REAL,
			longitude REAL,
			"timestamp" DATETIME
		)`,
}

type ProcessedAgentDataRepo struct {
	SQLBaseRepo
}

func NewProcessedAgentDataRepository(db database.DB) *ProcessedAgentDataRepo {
	return &ProcessedAgentDataRepo{SQLBaseRepo: SQLBaseRepo{db: db}}
}

// EnsureSchema creates processed_agent_data if it does not exist yet
func (r *ProcessedAgentDataRepo) EnsureSchema(ctx context.Context) error {
	ddl, ok := schemaByDriver[r.driverName()]
	if !ok {
		return errors.NewInternalError(fmt.Sprintf("no schema for driver %q", r.driverName()), nil)
	}
	if _, err := r.db.GetDB().ExecContext(ctx, ddl); err != nil {
		return errors.NewDatabaseError("failed to initialize schema", err)
	}
	nuts.L.Infof("[SQLStore] Schema ready (%s)", r.driverName())
	return nil
}

func (r *ProcessedAgentDataRepo) Insert(ctx context.Context, tx database.Transaction, data *models.ProcessedAgentData) (*models.ProcessedAgentDataInDB, error) {
	query := `
		INSERT INTO processed_agent_data (
			road_state, x, y, z, latitude, longitude, "timestamp"
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id`

	row := data.Flatten(0)
	var id int64
	err := tx.GetContext(ctx, &id, query,
		row.RoadState,
		row.X,
		row.Y,
		row.Z,
		row.Latitude,
		row.Longitude,
		row.Timestamp,
	)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to insert processed agent data", err)
	}

	row.ID = id
	return row, nil
}

func (r *ProcessedAgentDataRepo) Get(ctx context.Context, tx database.Transaction, id int64) (*models.ProcessedAgentDataInDB, error) {
	row := &models.ProcessedAgentDataInDB{}
	query := `SELECT ` + processedAgentDataColumns + ` FROM processed_agent_data WHERE id = $1`

	err := tx.GetContext(ctx, row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("Data not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get processed agent data", err)
	}
	return row, nil
}

func (r *ProcessedAgentDataRepo) List(ctx context.Context, tx database.Transaction, filters models.ProcessedAgentDataFilters) ([]*models.ProcessedAgentDataInDB, error) {
	rows := []*models.ProcessedAgentDataInDB{}
	query := `SELECT ` + processedAgentDataColumns + ` FROM processed_agent_data`
	args := []interface{}{}

	if !filters.IsEmpty() {
		query += ` WHERE road_state = $1`
		args = append(args, filters.RoadState)
	}
	query += ` ORDER BY id`

	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list processed agent data", err)
	}
	return rows, nil
}

// Replace overwrites every non-id column and echoes the written values.
func (r *ProcessedAgentDataRepo) Replace(ctx context.Context, tx database.Transaction, id int64, data *models.ProcessedAgentData) (*models.ProcessedAgentDataInDB, error) {
	if _, err := r.Get(ctx, tx, id); err != nil {
		return nil, err
	}

	query := `
		UPDATE processed_agent_data SET
			road_state = $1,
			x = $2,
			y = $3,
			z = $4,
			latitude = $5,
			longitude = $6,
			"timestamp" = $7
		WHERE id = $8`

	row := data.Flatten(id)
	result, err := tx.ExecContext(ctx, query,
		row.RoadState,
		row.X,
		row.Y,
		row.Z,
		row.Latitude,
		row.Longitude,
		row.Timestamp,
		id,
	)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to update processed agent data", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return nil, errors.NewNotFoundError("Data not found", nil)
	}
	return row, nil
}

// Remove deletes the row and returns it as it was just before deletion.
func (r *ProcessedAgentDataRepo) Remove(ctx context.Context, tx database.Transaction, id int64) (*models.ProcessedAgentDataInDB, error) {
	existing, err := r.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM processed_agent_data WHERE id = $1`, id)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to delete processed agent data", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return nil, errors.NewNotFoundError("Data not found", nil)
	}
	return existing, nil
}
