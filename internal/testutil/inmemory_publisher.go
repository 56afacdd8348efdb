package testutil

import (
	"context"
	"sync"

	"github.com/dojocycle/dojocycle/internal/publisher"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
)

// InMemoryPublisherService records published events for assertions.
type InMemoryPublisherService struct {
	mu     sync.RWMutex
	events []*types.MembershipEvent
	err    error
}

var _ publisher.EventPublisher = (*InMemoryPublisherService)(nil)

// NewInMemoryEventPublisher creates a new instance of InMemoryPublisherService
func NewInMemoryEventPublisher() *InMemoryPublisherService {
	return &InMemoryPublisherService{
		events: make([]*types.MembershipEvent, 0),
	}
}

// Publish implements publisher.EventPublisher
func (p *InMemoryPublisherService) Publish(ctx context.Context, event *types.MembershipEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// FailWith makes every following Publish return err. Pass nil to recover.
func (p *InMemoryPublisherService) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetEvents returns all published events
func (p *InMemoryPublisherService) GetEvents() []*types.MembershipEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	events := make([]*types.MembershipEvent, len(p.events))
	copy(events, p.events)
	return events
}

// EventsNamed returns the published events with the given name
func (p *InMemoryPublisherService) EventsNamed(name string) []*types.MembershipEvent {
	return lo.Filter(p.GetEvents(), func(e *types.MembershipEvent, _ int) bool {
		return e.EventName == name
	})
}

// Clear removes all published events
func (p *InMemoryPublisherService) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*types.MembershipEvent, 0)
	p.err = nil
}
