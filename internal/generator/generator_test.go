package generator

import (
	"context"
	"testing"
)

func TestViewDurationMaxBound(t *testing.T) {
	maxDuration := 80_000

	g := NewEventGenerator()
	g.SetDurationMax(maxDuration)

	for range 1000 {
		e := g.Event()
		if e.ViewDuration <= 0 || e.ViewDuration > maxDuration {
			t.Fatalf("ViewDuration out of bounds: %d", e.ViewDuration)
		}
	}
}

func TestShortViewsNeverBounce(t *testing.T) {
	g := NewEventGenerator().SetDurationMax(bounceMax - 1).SetBounceRate(1)

	for range 1000 {
		if g.Event().IsBounce {
			t.Fatal("view shorter than bounceMax marked as bounce")
		}
	}
}

func TestRandomizationActuallyChangesValues(t *testing.T) {
	g := NewEventGenerator()

	e1 := g.Event()
	e2 := g.Event()

	if e1.PageID == e2.PageID {
		t.Fatal("PageID did not change between events")
	}

	if e1.IPAddress == e2.IPAddress {
		t.Fatal("IPAddress did not change between events")
	}
}

func TestUserPool(t *testing.T) {
	g := NewEventGenerator().SetUserCount(3)

	users := map[string]struct{}{}
	for range 1000 {
		users[g.Event().UserID] = struct{}{}
	}

	if len(users) != 3 {
		t.Fatalf("expected 3 distinct users, got %d", len(users))
	}
}

func TestTrackedEventShape(t *testing.T) {
	e := NewEventGenerator().Event()

	name, props := e.ToTrackedEvent()
	if name != "Page View" {
		t.Fatalf("unexpected event name %q", name)
	}

	for _, key := range []string{"distinct_id", "PageID", "ViewDuration", "IsBounce", "UserAgent", "ip", "Region", "time"} {
		if _, ok := props.Get(key); !ok {
			t.Fatalf("property %q missing", key)
		}
	}
}

func TestEventsCount(t *testing.T) {
	g := NewEventGenerator()

	count := 0
	for range g.Events(t.Context(), 25) {
		count++
	}

	if count != 25 {
		t.Fatalf("expected 25 events, got %d", count)
	}
}

func TestEventsStopOnCancel(t *testing.T) {
	g := NewEventGenerator()

	ctx, cancel := context.WithCancel(t.Context())
	ch := g.Events(ctx, 1_000_000)

	<-ch
	cancel()

	count := 0
	for range ch {
		count++
	}

	if count > 1 {
		t.Fatalf("expected generation to stop after cancel, got %d more events", count)
	}
}
