// FilePath: internal/broadcast/broadcast.go
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

var (
	// ErrRegistryClosed is returned when subscribing after Close
	ErrRegistryClosed = errors.New("broadcast registry closed")
	// ErrSubscriberClosed is returned when sending to a closed subscriber
	ErrSubscriberClosed = errors.New("subscriber closed")
	// ErrSubscriberBacklogged is returned when a subscriber's queue is full
	ErrSubscriberBacklogged = errors.New("subscriber send queue full")
)

// Subscriber is one open live-update connection
type Subscriber interface {
	ID() string
	// Send queues payload for delivery. It must not block.
	Send(payload []byte) error
	Close() error
}

// Registry holds the set of open subscribers and fans created records out
// to them. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
	closed      bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		subscribers: make(map[Subscriber]struct{}),
	}
}

// Subscribe registers s
func (r *Registry) Subscribe(s Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	r.subscribers[s] = struct{}{}
	nuts.L.Infof("[Broadcast] Subscriber %s connected. Total subscribers: %d", s.ID(), len(r.subscribers))
	return nil
}

// Unsubscribe removes s. Removing an unknown subscriber is a no-op.
func (r *Registry) Unsubscribe(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[s]; !ok {
		return
	}
	delete(r.subscribers, s)
	nuts.L.Infof("[Broadcast] Subscriber %s disconnected. Total subscribers: %d", s.ID(), len(r.subscribers))
}

// Count returns the number of registered subscribers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

// Publish sends record to every registered subscriber. Delivery is best
// effort: failures are logged and never propagate to the caller.
func (r *Registry) Publish(ctx context.Context, record *models.ProcessedAgentDataInDB) {
	payload, err := json.Marshal(record)
	if err != nil {
		nuts.L.Errorf("[Broadcast] Failed to marshal record %d: %v", record.ID, err)
		return
	}
	attempted, failed := r.Broadcast(payload)
	if failed > 0 {
		nuts.L.Warnf("[Broadcast] Record %d delivered to %d/%d subscribers", record.ID, attempted-failed, attempted)
	}
}

// Broadcast makes exactly one delivery attempt per registered subscriber
// and reports how many were attempted and how many failed.
func (r *Registry) Broadcast(payload []byte) (attempted, failed int) {
	for _, s := range r.snapshot() {
		attempted++
		if err := s.Send(payload); err != nil {
			failed++
			nuts.L.Warnf("[Broadcast] Failed to deliver to subscriber %s: %v", s.ID(), err)
		}
	}
	return attempted, failed
}

// Close closes every subscriber and rejects further subscriptions
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	subs := make([]Subscriber, 0, len(r.subscribers))
	for s := range r.subscribers {
		subs = append(subs, s)
	}
	r.subscribers = make(map[Subscriber]struct{})
	r.mu.Unlock()

	for _, s := range subs {
		if err := s.Close(); err != nil {
			nuts.L.Warnf("[Broadcast] Error closing subscriber %s: %v", s.ID(), err)
		}
	}
	nuts.L.Infof("[Broadcast] Registry closed, %d subscribers disconnected", len(subs))
}

// snapshot copies the subscriber set so sends happen outside the lock
func (r *Registry) snapshot() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]Subscriber, 0, len(r.subscribers))
	for s := range r.subscribers {
		subs = append(subs, s)
	}
	return subs
}
