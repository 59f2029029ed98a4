// Package event is a small synchronous publish/subscribe bus the world
// uses to announce contacts and lifecycle changes.
package event

import (
	"sync"

	"github.com/google/uuid"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Type represents the type of event
type Type string

// World event types
const (
	BodyAdded       Type = "body_added"
	BodyRemoved     Type = "body_removed"
	Collision       Type = "collision"
	SensorTriggered Type = "sensor_triggered"
	GravityChanged  Type = "gravity_changed"
	WorldStepped    Type = "world_stepped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type registration struct {
	id      uuid.UUID
	handler Handler
}

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uuid.UUID
	Type   Type
	Cancel func()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			b.Unsubscribe(eventType, id)
		},
	}
}

// Unsubscribe removes the handler registered under id. Unknown ids are ignored.
func (b *Bus) Unsubscribe(eventType Type, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
			return
		}
	}
}

// HandlerCount returns how many handlers listen for eventType.
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers. Handlers run on the
// caller's goroutine and may subscribe or cancel without deadlocking.
func (b *Bus) Publish(event Event) {
	if b == nil || event == nil {
		return
	}
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// BodyEvent announces a body entering or leaving a world.
type BodyEvent struct {
	BaseEvent
	BodyID uint64
}

// NewBodyEvent creates a new body lifecycle event
func NewBodyEvent(eventType Type, source interface{}, bodyID uint64) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyID: bodyID,
	}
}

// CollisionEvent reports a resolved contact, or a sensor overlap when
// one side is not interactive. MTV moves BodyA out of BodyB.
type CollisionEvent struct {
	BaseEvent
	BodyA uint64
	BodyB uint64
	MTV   physics.Vector2D
	Point physics.Vector2D
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(eventType Type, source interface{}, bodyA, bodyB uint64, mtv, poi physics.Vector2D) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyA: bodyA,
		BodyB: bodyB,
		MTV:   mtv,
		Point: poi,
	}
}

// GravityEvent carries the old and new gravity of a world.
type GravityEvent struct {
	BaseEvent
	Old physics.Vector2D
	New physics.Vector2D
}

// NewGravityEvent creates a new gravity change event
func NewGravityEvent(source interface{}, oldGravity, newGravity physics.Vector2D) *GravityEvent {
	return &GravityEvent{
		BaseEvent: BaseEvent{
			EventType: GravityChanged,
			Source:    source,
		},
		Old: oldGravity,
		New: newGravity,
	}
}

// StepEvent is published after every fixed sub-step.
type StepEvent struct {
	BaseEvent
	Step       uint64
	Collisions int
}

// NewStepEvent creates a new step event
func NewStepEvent(source interface{}, step uint64, collisions int) *StepEvent {
	return &StepEvent{
		BaseEvent: BaseEvent{
			EventType: WorldStepped,
			Source:    source,
		},
		Step:       step,
		Collisions: collisions,
	}
}
