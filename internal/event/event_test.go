package event

import (
	"sync"
	"testing"
)

type testEvent struct {
	kind Type
	n    int
}

func (e testEvent) EventType() Type { return e.kind }

func TestPublishToSubscribers(t *testing.T) {
	bus := NewBus()
	var got []int
	bus.Subscribe("tick", func(e Event) { got = append(got, e.(testEvent).n) })
	bus.Subscribe("other", func(e Event) { t.Error("unexpected delivery to other") })

	bus.Publish(testEvent{kind: "tick", n: 1})
	bus.Publish(testEvent{kind: "tick", n: 2})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe("tick", func(Event) { calls++ })

	bus.Publish(testEvent{kind: "tick"})
	unsub()
	unsub()
	bus.Publish(testEvent{kind: "tick"})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if bus.Len("tick") != 0 {
		t.Errorf("expected no handlers left, got %d", bus.Len("tick"))
	}
}

func TestAllReceivesEverythingInOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(All, func(Event) { order = append(order, "all") })
	bus.Subscribe("tick", func(Event) { order = append(order, "tick") })

	bus.Publish(testEvent{kind: "tick"})
	bus.Publish(testEvent{kind: "tock"})

	want := []string{"all", "tick", "all"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe("tick", func(Event) {
		calls++
		unsub()
	})
	bus.Publish(testEvent{kind: "tick"})
	bus.Publish(testEvent{kind: "tick"})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe("tick", func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(testEvent{kind: "tick"})
			}
		}()
	}
	wg.Wait()

	if count != 1000 {
		t.Errorf("expected 1000 deliveries, got %d", count)
	}
}
