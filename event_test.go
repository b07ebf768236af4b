package springmass

import (
	"testing"

	"github.com/akmonengine/springmass/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestParticle(x float64) *actor.Particle {
	return actor.NewParticle(mgl64.Vec3{x, 0, 0}, 0.5, 1, true)
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func subscribeAll(events *Events, capture *eventCapture) {
	for _, eventType := range []EventType{COLLISION_ENTER, COLLISION_STAY, COLLISION_EXIT, STEP} {
		events.Subscribe(eventType, capture.capture)
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)
	events.Subscribe(COLLISION_ENTER, nil)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_ZeroValue(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)
	events.recordCollision(newTestParticle(0), newTestParticle(1))
	events.flush()

	if capture.count() != 1 {
		t.Errorf("zero value Events delivered %d events, want 1", capture.count())
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	first, second := &eventCapture{}, &eventCapture{}
	events.Subscribe(STEP, first.capture)
	events.Subscribe(STEP, second.capture)

	events.flush(StepEvent{Step: 1})

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("listeners got %d and %d events, want 1 each", first.count(), second.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	enter, step := &eventCapture{}, &eventCapture{}
	events.Subscribe(COLLISION_ENTER, enter.capture)
	events.Subscribe(STEP, step.capture)

	events.recordCollision(newTestParticle(0), newTestParticle(1))
	events.flush(StepEvent{Step: 1})

	if enter.count() != 1 || enter.countType(COLLISION_ENTER) != 1 {
		t.Errorf("enter listener got %v", enter.events)
	}
	if step.count() != 1 || step.countType(STEP) != 1 {
		t.Errorf("step listener got %v", step.events)
	}
}

// =============================================================================
// Pair Key Tests
// =============================================================================

func TestMakePairKey_Normalization(t *testing.T) {
	p := newTestParticle(0)
	box := actor.NewStaticBox(actor.NewTransform(), mgl64.Vec3{1, 1, 1})

	if makePairKey(p, box) != makePairKey(box, p) {
		t.Error("pair key depends on argument order")
	}
	if key := makePairKey(box, p); key.bodyA != actor.Body(p) {
		t.Errorf("lower body type should come first, got %v", key.bodyA.Type())
	}
}

func TestMakePairKey_SameType(t *testing.T) {
	a, b := newTestParticle(0), newTestParticle(1)

	if makePairKey(a, b) != makePairKey(b, a) {
		t.Error("pair key of two particles depends on argument order")
	}
}

func TestMakePairKey_DifferentPairs(t *testing.T) {
	a, b, c := newTestParticle(0), newTestParticle(1), newTestParticle(2)

	if makePairKey(a, b) == makePairKey(a, c) {
		t.Error("different pairs share a key")
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_CollisionLifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)
	a, b := newTestParticle(0), newTestParticle(1)

	steps := []struct {
		name      string
		touching  bool
		wantEnter int
		wantStay  int
		wantExit  int
	}{
		{"first contact", true, 1, 0, 0},
		{"still touching", true, 0, 1, 0},
		{"still touching again", true, 0, 1, 0},
		{"separated", false, 0, 0, 1},
		{"still apart", false, 0, 0, 0},
		{"contact again", true, 1, 0, 0},
	}

	for i, step := range steps {
		capture.reset()
		if step.touching {
			// both orders are recorded by the narrow phase
			events.recordCollision(a, b)
			events.recordCollision(b, a)
		}
		events.flush(StepEvent{Step: uint64(i + 1)})

		if got := capture.countType(COLLISION_ENTER); got != step.wantEnter {
			t.Errorf("%s: %d enter events, want %d", step.name, got, step.wantEnter)
		}
		if got := capture.countType(COLLISION_STAY); got != step.wantStay {
			t.Errorf("%s: %d stay events, want %d", step.name, got, step.wantStay)
		}
		if got := capture.countType(COLLISION_EXIT); got != step.wantExit {
			t.Errorf("%s: %d exit events, want %d", step.name, got, step.wantExit)
		}
		if got := capture.countType(STEP); got != 1 {
			t.Errorf("%s: %d step events, want 1", step.name, got)
		}
	}
}

func TestEvents_StepComesLast(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	events.recordCollision(newTestParticle(0), newTestParticle(1))
	events.recordCollision(newTestParticle(5), newTestParticle(6))
	events.flush(StepEvent{Step: 1})

	if capture.count() != 3 {
		t.Fatalf("got %d events, want 3", capture.count())
	}
	if capture.events[len(capture.events)-1].Type() != STEP {
		t.Errorf("last event is %v, want STEP", capture.events[len(capture.events)-1].Type())
	}
}

func TestEvents_Flush_ClearsBuffer(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	events.flush(StepEvent{Step: 1})
	if len(events.buffer) != 0 {
		t.Errorf("buffer holds %d events after flush", len(events.buffer))
	}

	capture.reset()
	events.flush()
	if capture.count() != 0 {
		t.Errorf("empty flush delivered %d events", capture.count())
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)
	a, b := newTestParticle(0), newTestParticle(1)

	events.recordCollision(a, b)
	events.flush()
	events.forget()

	capture.reset()
	events.flush()
	if capture.countType(COLLISION_EXIT) != 0 {
		t.Error("forget() still emitted an exit event")
	}
}

func TestEvents_ForgetBody(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)
	a, b, c := newTestParticle(0), newTestParticle(1), newTestParticle(2)

	events.recordCollision(a, b)
	events.recordCollision(b, c)
	events.flush()
	events.forgetBody(a)

	capture.reset()
	events.flush()
	if got := capture.countType(COLLISION_EXIT); got != 1 {
		t.Errorf("%d exit events, want 1 for the remaining pair", got)
	}
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()

	events.recordCollision(newTestParticle(0), newTestParticle(1))
	events.flush(StepEvent{Step: 1})

	if len(events.previousActivePairs) != 1 {
		t.Errorf("pairs are tracked without listeners: got %d, want 1", len(events.previousActivePairs))
	}
}
