package agentservice

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/roadvision/store/internal/broadcast"
	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/models"
	"github.com/roadvision/store/internal/repository/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	records []*models.ProcessedAgentDataInDB
	// visible reports whether the record was readable by another
	// transaction at publish time
	visible []bool
	svc     *AgentService
}

func (p *recordingPublisher) Publish(ctx context.Context, record *models.ProcessedAgentDataInDB) {
	_, err := p.svc.Get(ctx, record.ID)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
	p.visible = append(p.visible, err == nil)
}

func (p *recordingPublisher) published() []*models.ProcessedAgentDataInDB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.ProcessedAgentDataInDB(nil), p.records...)
}

type failingSubscriber struct{}

func (failingSubscriber) ID() string        { return "failing" }
func (failingSubscriber) Send([]byte) error { return broadcast.ErrSubscriberBacklogged }
func (failingSubscriber) Close() error      { return nil }

func newTestService(t *testing.T, publishers ...Publisher) (*AgentService, *recordingPublisher) {
	t.Helper()
	db, err := database.NewSQLiteDB(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlstore.NewProcessedAgentDataRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	rec := &recordingPublisher{}
	svc := New(repo, append([]Publisher{rec}, publishers...)...)
	rec.svc = svc
	require.NoError(t, svc.Validate())
	return svc, rec
}

func decode(t *testing.T, body string) *models.ProcessedAgentDataRequest {
	t.Helper()
	req, err := models.DecodeProcessedAgentDataRequest([]byte(body))
	require.NoError(t, err)
	return req
}

const goodBody = `{
	"road_state": "good",
	"agent_data": {
		"accelerometer": {"x": 1.0, "y": 2.0, "z": 3.0},
		"gps": {"latitude": 50.45, "longitude": 30.52},
		"timestamp": "2024-01-01T00:00:00"
	}
}`

const potholeBody = `{
	"road_state": "pothole",
	"agent_data": {
		"accelerometer": {"x": 9.0, "y": 8.0, "z": 7.0},
		"gps": {"latitude": 49.84, "longitude": 24.03},
		"timestamp": "2024-02-02T12:00:00"
	}
}`

func TestValidate_MissingRepository(t *testing.T) {
	err := New(nil).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processedAgentData")
}

func TestCreate_PublishesAfterCommit(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, decode(t, goodBody))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	published := rec.published()
	require.Len(t, published, 1)
	assert.Equal(t, created, published[0])
	assert.Equal(t, []bool{true}, rec.visible)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "good", got.RoadState)
	assert.Equal(t, "2024-01-01T00:00:00", got.Timestamp.String())
}

func TestCreate_ValidationFailureStoresAndPublishesNothing(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	body := `{"road_state":"good","agent_data":{"accelerometer":{"x":1,"y":2,"z":3},"gps":{"latitude":1,"longitude":2},"timestamp":"not-a-date"}}`
	_, err := svc.Create(ctx, decode(t, body))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	rows, err := svc.List(ctx, models.ProcessedAgentDataFilters{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rec.published())
}

func TestCreate_CancelledContextStoresNothing(t *testing.T) {
	svc, rec := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Create(ctx, decode(t, goodBody))
	require.Error(t, err)

	rows, err := svc.List(context.Background(), models.ProcessedAgentDataFilters{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rec.published())
}

func TestCreate_FailingLiveSubscriberDoesNotFailCreate(t *testing.T) {
	registry := broadcast.NewRegistry()
	defer registry.Close()
	require.NoError(t, registry.Subscribe(failingSubscriber{}))

	svc, rec := newTestService(t, registry)
	created, err := svc.Create(context.Background(), decode(t, goodBody))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Len(t, rec.published(), 1)
}

func TestUpdate_ReplacesAndDoesNotPublish(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, decode(t, goodBody))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, decode(t, potholeBody))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "pothole", updated.RoadState)
	assert.Equal(t, 9.0, updated.X)
	assert.Equal(t, "2024-02-02T12:00:00", updated.Timestamp.String())

	again, err := svc.Update(ctx, created.ID, decode(t, potholeBody))
	require.NoError(t, err)
	assert.Equal(t, updated, again)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pothole", got.RoadState)
	assert.Len(t, rec.published(), 1)
}

func TestUpdate_MissingRow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 42, decode(t, goodBody))
	assert.True(t, errors.IsNotFound(err))
}

func TestDelete_ReturnsPriorStateThenNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, decode(t, goodBody))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "good", deleted.RoadState)

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.Delete(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestList_FilterByRoadState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{goodBody, potholeBody, goodBody} {
		_, err := svc.Create(ctx, decode(t, body))
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, models.ProcessedAgentDataFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	potholes, err := svc.List(ctx, models.ProcessedAgentDataFilters{RoadState: "pothole"})
	require.NoError(t, err)
	require.Len(t, potholes, 1)
	assert.Equal(t, int64(2), potholes[0].ID)
}

func TestOnEvent_ReceivesLifecycleEvents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var mu sync.Mutex
	seen := map[string][]int64{}
	for _, event := range []string{EventCreated, EventUpdated, EventDeleted} {
		event := event
		svc.OnEvent(event, func(id int64) {
			mu.Lock()
			seen[event] = append(seen[event], id)
			mu.Unlock()
		})
	}

	created, err := svc.Create(ctx, decode(t, goodBody))
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, decode(t, potholeBody))
	require.NoError(t, err)
	_, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen[EventCreated]) == 1 && len(seen[EventUpdated]) == 1 && len(seen[EventDeleted]) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
