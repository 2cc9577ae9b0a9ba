package core

import "testing"

func TestInputQueueDrainOrder(t *testing.T) {
	q := NewInputQueue(8)
	q.Push(MoveTowards{Point: V(1, 1)})
	q.Push(MoveTowards{Point: V(2, 2)})
	q.Push(StopMoving{})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("Drain() returned %d events, expected 3", len(events))
	}
	if mv, ok := events[1].(MoveTowards); !ok || mv.Point != V(2, 2) {
		t.Errorf("second event = %#v, expected MoveTowards(2, 2)", events[1])
	}
	if _, ok := events[2].(StopMoving); !ok {
		t.Errorf("third event = %#v, expected StopMoving", events[2])
	}

	if again := q.Drain(); len(again) != 0 {
		t.Errorf("second Drain() returned %d events, expected 0", len(again))
	}
}

func TestInputQueueDropsOldestWhenFull(t *testing.T) {
	q := NewInputQueue(2)
	q.Push(MoveTowards{Point: V(1, 0)})
	q.Push(MoveTowards{Point: V(2, 0)})
	q.Push(MoveTowards{Point: V(3, 0)})

	events := q.Drain()
	if len(events) != 2 {
		t.Fatalf("Drain() returned %d events, expected 2", len(events))
	}
	if mv := events[0].(MoveTowards); mv.Point.X != 2 {
		t.Errorf("oldest surviving event X = %f, expected 2", mv.Point.X)
	}
}

func TestPointerState(t *testing.T) {
	var p PointerState
	if p.Current() != nil {
		t.Fatal("zero PointerState should have no target")
	}

	p.Apply(MoveTowards{Point: V(10, 20)})
	if cur := p.Current(); cur == nil || *cur != V(10, 20) {
		t.Errorf("Current() = %v, expected (10, 20)", cur)
	}

	p.Apply(StopMoving{})
	if p.Current() != nil {
		t.Error("StopMoving should clear the target")
	}
}
