package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventCharacterCreated EventType = "character_created"
	EventCharacterUpdated EventType = "character_updated"
	EventCharacterDeleted EventType = "character_deleted"
	EventBatchesChanged   EventType = "batches_changed"
	EventGroupsChanged    EventType = "groups_changed"
	EventSettingUpdated   EventType = "setting_updated"
	EventDataImported     EventType = "data_imported"
)

// Event represents a change to the store
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus fans events out to subscribers
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers without blocking
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
