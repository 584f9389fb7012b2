// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/roadvision/store/api"
	"github.com/roadvision/store/api/resources"
	"github.com/roadvision/store/internal/agentservice"
	"github.com/roadvision/store/internal/broadcast"
	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/ingest"
	"github.com/roadvision/store/internal/monitoring"
	"github.com/roadvision/store/internal/relay"
	"github.com/roadvision/store/internal/repository/sqlstore"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config       *config.Config
	srv          *http.Server
	db           database.DB
	registry     *broadcast.Registry
	agentservice *agentservice.AgentService
	monitoring   *monitoring.Service
	redis        *relay.RedisRelay
	mqtt         *ingest.MQTTIngestor
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	if err := s.initialize(); err != nil {
		s.release()
		return err
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// Handler returns the HTTP handler; valid after initialize
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// initialize opens the database and wires every component
func (s *Server) initialize() error {
	db, err := initDB(s.config.Database)
	if err != nil {
		return err
	}
	s.db = db

	repo := sqlstore.NewProcessedAgentDataRepository(db)
	if s.config.Database.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("error initializing schema: %w", err)
		}
	}

	// The registry lives exactly as long as the server.
	s.registry = broadcast.NewRegistry()
	publishers := []agentservice.Publisher{s.registry}

	if s.config.Redis.Enabled {
		s.redis, err = relay.NewRedisRelay(s.config.Redis)
		if err != nil {
			return err
		}
		publishers = append(publishers, s.redis)
	}

	s.agentservice = agentservice.New(repo, publishers...)
	if err := s.agentservice.Validate(); err != nil {
		return err
	}

	s.monitoring = monitoring.NewService()
	s.setupEventHandlers()

	// Setup routes
	res := resources.NewResources(
		s.agentservice,
		s.registry,
		broadcast.OptionsFromConfig(s.config.Broadcast),
		s.monitoring,
		s.db,
	)
	s.srv.Handler = api.NewRouter(res)

	if s.config.MQTT.Enabled {
		s.mqtt, err = ingest.NewMQTTIngestor(s.config.MQTT, s.agentservice)
		if err != nil {
			return err
		}
	}
	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return err
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// Shutdown stops ingestion, drains HTTP, disconnects live subscribers and
// releases storage.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.mqtt != nil {
		s.mqtt.Close()
		s.mqtt = nil
	}

	err := s.srv.Shutdown(ctx)
	s.release()
	if err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}

// release closes everything initialize may have opened
func (s *Server) release() {
	if s.mqtt != nil {
		s.mqtt.Close()
		s.mqtt = nil
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing Redis: %v", err)
		}
		s.redis = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
		s.db = nil
	}
}

func (s *Server) setupEventHandlers() {
	s.agentservice.OnEvent(agentservice.EventCreated, func(id int64) {
		s.monitoring.RecordEvent("processed_agent_data_created", map[string]string{
			"id": strconv.FormatInt(id, 10),
		})
	})

	s.agentservice.OnEvent(agentservice.EventUpdated, func(id int64) {
		s.monitoring.RecordEvent("processed_agent_data_updated", map[string]string{
			"id": strconv.FormatInt(id, 10),
		})
	})

	s.agentservice.OnEvent(agentservice.EventDeleted, func(id int64) {
		s.monitoring.RecordEvent("processed_agent_data_deleted", map[string]string{
			"id": strconv.FormatInt(id, 10),
		})
	})
}

func initDB(cfg config.DatabaseConfig) (database.DB, error) {
	wrappedDB, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set up connection timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		wrappedDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return wrappedDB, nil
}
