package agentservice

import (
	"context"

	"github.com/roadvision/store/internal/errors"
	"github.com/roadvision/store/internal/models"
	"github.com/roadvision/store/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Lifecycle events emitted after a successful commit. Handlers receive the
// record id.
const (
	EventCreated = "processed_agent_data.created"
	EventUpdated = "processed_agent_data.updated"
	EventDeleted = "processed_agent_data.deleted"
)

// Publisher receives every newly created record. Implementations must not
// block and must swallow their own delivery failures.
type Publisher interface {
	Publish(ctx context.Context, record *models.ProcessedAgentDataInDB)
}

// AgentService contains the repository and the fan-out targets for created data
type AgentService struct {
	ProcessedAgentData repository.ProcessedAgentDataRepository
	publishers         []Publisher
	events             *nuts.EventEmitter
}

// New creates a new AgentService instance
func New(repo repository.ProcessedAgentDataRepository, publishers ...Publisher) *AgentService {
	return &AgentService{
		ProcessedAgentData: repo,
		publishers:         publishers,
		events:             nuts.NewEventEmitter(),
	}
}

// Validate checks if all required dependencies are initialized
func (s *AgentService) Validate() error {
	if s.ProcessedAgentData == nil {
		return ErrMissingRepository("processedAgentData")
	}
	return nil
}

// OnEvent registers a callback for lifecycle events
func (s *AgentService) OnEvent(event string, handler func(id int64)) {
	s.events.On(event, nuts.NID("evt", 8), func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(int64); ok {
				handler(id)
			}
		}
	})
}

func (s *AgentService) publish(ctx context.Context, record *models.ProcessedAgentDataInDB) {
	for _, p := range s.publishers {
		p.Publish(ctx, record)
	}
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
