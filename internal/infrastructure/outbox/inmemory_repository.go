package outbox

import (
	"sort"
	"sync"
)

type InMemoryRepository struct {
	mu     sync.Mutex
	events map[string]OutboxEvent
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		events: make(map[string]OutboxEvent),
	}
}

func (r *InMemoryRepository) Save(evt OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt.Published = false
	r.events[evt.ID] = evt
	return nil
}

func (r *InMemoryRepository) FindUnpublished(limit int) ([]OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []OutboxEvent
	for _, evt := range r.events {
		if !evt.Published {
			events = append(events, evt)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *InMemoryRepository) MarkPublished(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	evt.Published = true
	r.events[id] = evt
	return nil
}
