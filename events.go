package springmass

import (
	"reflect"

	"github.com/akmonengine/springmass/actor"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	STEP
)

type pairKey struct {
	bodyA actor.Body
	bodyB actor.Body
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB actor.Body) pairKey {
	if bodyA.Type() > bodyB.Type() ||
		(bodyA.Type() == bodyB.Type() && bodyAddress(bodyB) < bodyAddress(bodyA)) {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

func bodyAddress(body actor.Body) uintptr {
	rv := reflect.ValueOf(body)
	if rv.Kind() != reflect.Pointer {
		return 0
	}

	return rv.Pointer()
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Collision events
type CollisionEnterEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// StepEvent is emitted once at the end of every step, after collision events.
// It is the hook renderers use to read the simulation state.
type StepEvent struct {
	System    *System
	Step      uint64
	DeltaTime float64
	Contacts  int
}

func (e StepEvent) Type() EventType { return STEP }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

func (e *Events) init() {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	if e.previousActivePairs == nil {
		e.previousActivePairs = make(map[pairKey]bool)
	}
	if e.currentActivePairs == nil {
		e.currentActivePairs = make(map[pairKey]bool)
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if listener == nil {
		return
	}
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision marks a pair as touching during the current step
func (e *Events) recordCollision(bodyA, bodyB actor.Body) {
	e.init()
	e.currentActivePairs[makePairKey(bodyA, bodyB)] = true
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	e.init()

	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush turns the recorded pairs into events, appends the pending ones
// and sends everything to the listeners
func (e *Events) flush(pending ...Event) {
	e.processCollisionEvents()
	e.buffer = append(e.buffer, pending...)

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

// forgetBody drops the pairs involving body, without emitting exit events
func (e *Events) forgetBody(body actor.Body) {
	for _, pairs := range []map[pairKey]bool{e.previousActivePairs, e.currentActivePairs} {
		for pair := range pairs {
			if pair.bodyA == body || pair.bodyB == body {
				delete(pairs, pair)
			}
		}
	}
}

// forget drops the collision history, without emitting exit events
func (e *Events) forget() {
	clear(e.previousActivePairs)
	clear(e.currentActivePairs)
	e.buffer = e.buffer[:0]
}
