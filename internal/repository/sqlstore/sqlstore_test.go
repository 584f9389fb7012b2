package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *ProcessedAgentDataRepo {
	t.Helper()
	db, err := database.NewSQLiteDB(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewProcessedAgentDataRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func sample(roadState string, x float64) *models.ProcessedAgentData {
	return &models.ProcessedAgentData{
		RoadState: roadState,
		AgentData: models.AgentData{
			Accelerometer: models.AccelerometerData{X: x, Y: 2.0, Z: 3.0},
			GPS:           models.GpsData{Latitude: 50.45, Longitude: 30.52},
			Timestamp:     models.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

// inTx runs fn in its own transaction, committed only when fn succeeds.
func inTx(t *testing.T, repo *ProcessedAgentDataRepo, fn func(tx database.Transaction) error) error {
	t.Helper()
	return database.WithTransaction(context.Background(), repo, fn)
}

func assertSameRow(t *testing.T, want, got *models.ProcessedAgentDataInDB) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.RoadState, got.RoadState)
	assert.Equal(t, want.X, got.X)
	assert.Equal(t, want.Y, got.Y)
	assert.Equal(t, want.Z, got.Z)
	assert.Equal(t, want.Latitude, got.Latitude)
	assert.Equal(t, want.Longitude, got.Longitude)
	assert.True(t, want.Timestamp.Equal(got.Timestamp.Time), "timestamp %s != %s", want.Timestamp, got.Timestamp)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestInsertThenGet_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	data := sample("good", 1.0)

	var created, fetched *models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		created, err = repo.Insert(ctx, tx, data)
		return err
	}))
	assert.Equal(t, int64(1), created.ID)

	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		fetched, err = repo.Get(ctx, tx, created.ID)
		return err
	}))
	assertSameRow(t, data.Flatten(created.ID), fetched)
	assert.Equal(t, "2024-01-01T00:00:00", fetched.Timestamp.String())
}

func TestNotFound_NoMutation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Insert(ctx, tx, sample("good", 1.0))
		return err
	}))

	err := inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Get(ctx, tx, 99)
		return err
	})
	assert.True(t, errors.IsNotFound(err))

	err = inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Replace(ctx, tx, 99, sample("bad", 5.0))
		return err
	})
	assert.True(t, errors.IsNotFound(err))

	err = inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Remove(ctx, tx, 99)
		return err
	})
	assert.True(t, errors.IsNotFound(err))

	var rows []*models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		rows, err = repo.List(ctx, tx, models.ProcessedAgentDataFilters{})
		return err
	}))
	require.Len(t, rows, 1)
	assert.Equal(t, "good", rows[0].RoadState)
	assert.Equal(t, 1.0, rows[0].X)
}

func TestReplace_IdempotentAndEchoes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var created *models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		created, err = repo.Insert(ctx, tx, sample("good", 1.0))
		return err
	}))

	replacement := sample("pothole", 7.5)
	var first, second, fetched *models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		first, err = repo.Replace(ctx, tx, created.ID, replacement)
		return err
	}))
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		second, err = repo.Replace(ctx, tx, created.ID, replacement)
		return err
	}))
	assert.Equal(t, first, second)
	assert.Equal(t, replacement.Flatten(created.ID), first)

	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		fetched, err = repo.Get(ctx, tx, created.ID)
		return err
	}))
	assertSameRow(t, first, fetched)
}

func TestRemove_ReturnsSnapshotThenNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var created, removed *models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		created, err = repo.Insert(ctx, tx, sample("good", 1.0))
		return err
	}))

	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		removed, err = repo.Remove(ctx, tx, created.ID)
		return err
	}))
	assertSameRow(t, created, removed)

	err := inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Get(ctx, tx, created.ID)
		return err
	})
	assert.True(t, errors.IsNotFound(err))
}

func TestList_OrderAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		for i, state := range []string{"good", "bad", "good"} {
			if _, err := repo.Insert(ctx, tx, sample(state, float64(i))); err != nil {
				return err
			}
		}
		return nil
	}))

	var all, good []*models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		if all, err = repo.List(ctx, tx, models.ProcessedAgentDataFilters{}); err != nil {
			return err
		}
		good, err = repo.List(ctx, tx, models.ProcessedAgentDataFilters{RoadState: "good"})
		return err
	}))

	require.Len(t, all, 3)
	for i, row := range all {
		assert.Equal(t, int64(i+1), row.ID)
	}
	require.Len(t, good, 2)
	assert.Equal(t, []int64{1, 3}, []int64{good[0].ID, good[1].ID})
}

func TestList_EmptyTableReturnsEmptySlice(t *testing.T) {
	repo := newTestRepo(t)

	var rows []*models.ProcessedAgentDataInDB
	require.NoError(t, inTx(t, repo, func(tx database.Transaction) error {
		var err error
		rows, err = repo.List(context.Background(), tx, models.ProcessedAgentDataFilters{})
		return err
	}))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRolledBackInsertIsInvisible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := inTx(t, repo, func(tx database.Transaction) error {
		if _, err := repo.Insert(ctx, tx, sample("good", 1.0)); err != nil {
			return err
		}
		return errors.NewInternalError("abort", nil)
	})
	require.Error(t, err)

	getErr := inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Get(ctx, tx, 1)
		return err
	})
	assert.True(t, errors.IsNotFound(getErr))
}

func TestInsert_StorageFailureIsDatabaseError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.GetDB().ExecContext(ctx, `DROP TABLE processed_agent_data`)
	require.NoError(t, err)

	err = inTx(t, repo, func(tx database.Transaction) error {
		_, err := repo.Insert(ctx, tx, sample("good", 1.0))
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.IsDatabase(err))
}
