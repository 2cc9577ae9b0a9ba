package core

// InputEvent is a pointer-level intent produced by an input device.
// Devices emit these; the simulation only ever sees the resulting target point.
type InputEvent interface {
	inputEvent()
}

// MoveTowards asks the player to steer towards Point.
type MoveTowards struct {
	Point Vec
}

func (MoveTowards) inputEvent() {}

// StopMoving releases the current steering target.
type StopMoving struct{}

func (StopMoving) inputEvent() {}

// InputQueue buffers input events between the device and the tick loop.
// The device side pushes; the tick side drains once per tick.
type InputQueue struct {
	events chan InputEvent
}

// NewInputQueue creates a queue holding up to size undrained events.
func NewInputQueue(size int) *InputQueue {
	if size < 1 {
		size = 64 // Default buffer size
	}
	return &InputQueue{events: make(chan InputEvent, size)}
}

// Push enqueues an event without blocking.
// If the buffer is full the oldest event is dropped.
func (q *InputQueue) Push(evt InputEvent) {
	select {
	case q.events <- evt:
		return
	default:
	}

	select {
	case <-q.events:
	default:
	}
	select {
	case q.events <- evt:
	default:
	}
}

// Drain removes and returns every queued event in arrival order.
func (q *InputQueue) Drain() []InputEvent {
	var out []InputEvent
	for {
		select {
		case evt := <-q.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// PointerState is the deduplicated "current target or none" view of an input stream.
type PointerState struct {
	Active bool
	Target Vec
}

// Apply folds one event into the pointer state.
func (p *PointerState) Apply(evt InputEvent) {
	switch e := evt.(type) {
	case MoveTowards:
		p.Active = true
		p.Target = e.Point
	case StopMoving:
		p.Active = false
	}
}

// Current returns the target point, or nil when no movement is requested.
func (p PointerState) Current() *Vec {
	if !p.Active {
		return nil
	}
	t := p.Target
	return &t
}
