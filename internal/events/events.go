package events

import (
	"encoding/json"
	"sync"
	"time"

	"sportclub/internal/models"
)

const (
	EventReservationCreated   = models.NotifyReservationCreated
	EventReservationConfirmed = models.NotifyReservationConfirmed
	EventReservationCancelled = models.NotifyReservationCancelled
	EventReservationExpired   = models.NotifyReservationExpired
	EventReservationReopened  = models.NotifyReservationReopened
)

// ReservationEvents lists every reservation lifecycle event type.
var ReservationEvents = []string{
	EventReservationCreated,
	EventReservationConfirmed,
	EventReservationCancelled,
	EventReservationExpired,
	EventReservationReopened,
}

// ReservationEventPayload describes the minimal reservation snapshot for event consumers.
type ReservationEventPayload struct {
	ReservationID int64            `json:"reservation_id"`
	FieldID       int64            `json:"field_id"`
	FieldName     string           `json:"field_name,omitempty"`
	UserID        *int64           `json:"user_id,omitempty"`
	Date          models.Date      `json:"date"`
	StartTime     models.TimeOfDay `json:"start_time"`
	EndTime       models.TimeOfDay `json:"end_time"`
	Status        string           `json:"status"`
	Version       int64            `json:"version"`
	ChangedBy     string           `json:"changed_by,omitempty"`
}

// NewReservationPayload snapshots r for publishing.
func NewReservationPayload(r *models.Reservation, changedBy string) ReservationEventPayload {
	return ReservationEventPayload{
		ReservationID: r.ID,
		FieldID:       r.FieldID,
		FieldName:     r.FieldName,
		UserID:        r.UserID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		Version:       r.Version,
		ChangedBy:     changedBy,
	}
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	onError     func(event *Event, err error)
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeMany registers one handler for several event types.
func (b *EventBus) SubscribeMany(eventTypes []string, handler EventHandler) {
	for _, t := range eventTypes {
		b.Subscribe(t, handler)
	}
}

// OnError sets the callback invoked when a handler fails.
func (b *EventBus) OnError(fn func(event *Event, err error)) {
	b.mu.Lock()
	b.onError = fn
	b.mu.Unlock()
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	onError := b.onError
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil && onError != nil {
			onError(event, err)
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
