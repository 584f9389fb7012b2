package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service counts lifecycle events for the /metrics endpoint
type Service struct {
	mu      sync.Mutex
	started time.Time
	counts  map[string]int64
	last    map[string]time.Time
}

// EventMetrics is a point-in-time copy of the recorded events
type EventMetrics struct {
	Since     time.Time            `json:"since"`
	Counts    map[string]int64     `json:"counts"`
	LastSeen  map[string]time.Time `json:"last_seen"`
	Generated time.Time            `json:"generated"`
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{
		started: time.Now(),
		counts:  make(map[string]int64),
		last:    make(map[string]time.Time),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	s.counts[eventName]++
	s.last[eventName] = ts
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, ts.Format(time.RFC3339), labels)
}

// GetEventMetrics returns a copy of the counters
func (s *Service) GetEventMetrics() EventMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := EventMetrics{
		Since:     s.started,
		Counts:    make(map[string]int64, len(s.counts)),
		LastSeen:  make(map[string]time.Time, len(s.last)),
		Generated: time.Now(),
	}
	for k, v := range s.counts {
		m.Counts[k] = v
	}
	for k, v := range s.last {
		m.LastSeen[k] = v
	}
	return m
}
