package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

func TestLiveRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "test", 10)
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	r.OnStep(flight.Snapshot{Altitude: 5})
	first := buf.Len()
	if first == 0 {
		t.Fatal("expected a frame")
	}

	clock = clock.Add(10 * time.Millisecond)
	r.OnStep(flight.Snapshot{Altitude: 6})
	if buf.Len() != first {
		t.Error("expected the second step to be skipped")
	}

	clock = clock.Add(200 * time.Millisecond)
	r.OnStep(flight.Snapshot{Altitude: 7})
	if buf.Len() == first {
		t.Error("expected a second frame")
	}
}

func TestLiveRendererGlyphs(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "test", 1)
	r.OnStep(flight.Snapshot{FlightState: models.Destroyed, LandedOn: ""})
	if !strings.Contains(buf.String(), "X") {
		t.Error("expected the wreck glyph")
	}
}

func TestLiveRendererRescales(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "test", 1)
	r.OnStep(flight.Snapshot{Altitude: 450})
	if r.ceiling != 800 {
		t.Errorf("expected ceiling 800, got %f", r.ceiling)
	}
}
