package rategraph

import (
	"reflect"
	"testing"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// S6 — rate graph ticker, from spec.md §8.
func TestAddPointEvictsAndDraws(t *testing.T) {
	g := NewGraph("CoBo[0]", 3)
	g.AddPoint(10)
	g.AddPoint(20)
	g.AddPoint(30)
	g.AddPoint(40)

	if got := g.points; !reflect.DeepEqual(got, []float64{20, 30, 40}) {
		t.Fatalf("buffer = %v, want [20 30 40]", got)
	}

	want := []Point{{-4, 20}, {-2, 30}, {0, 40}}
	if got := g.PointsToDraw(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PointsToDraw = %v, want %v", got, want)
	}
}

// P5 — rate graph bound.
func TestLenNeverExceedsMaxPoints(t *testing.T) {
	g := NewGraph("CoBo[0]", 2)
	for i := 0; i < 10; i++ {
		prevLen := g.Len()
		prevTime := g.LastTime()
		g.AddPoint(float64(i))
		if g.Len() > 2 {
			t.Fatalf("Len() = %d, want <= 2", g.Len())
		}
		wantLen := prevLen + 1
		if wantLen > 2 {
			wantLen = 2
		}
		if g.Len() != wantLen {
			t.Fatalf("Len() after add = %d, want %d", g.Len(), wantLen)
		}
		if g.LastTime() != prevTime+dt {
			t.Fatalf("LastTime() = %v, want %v", g.LastTime(), prevTime+dt)
		}
	}
}

func TestResetEmptiesBufferAndClock(t *testing.T) {
	g := NewGraph("CoBo[0]", 3)
	g.AddPoint(1)
	g.AddPoint(2)
	g.Reset()
	if g.Len() != 0 || g.LastTime() != 0 {
		t.Fatalf("after Reset, Len=%d LastTime=%v, want 0, 0", g.Len(), g.LastTime())
	}
}

func TestChangeMaxPointsResets(t *testing.T) {
	g := NewGraph("CoBo[0]", 3)
	g.AddPoint(1)
	g.AddPoint(2)
	g.ChangeMaxPoints(5)
	if g.Len() != 0 {
		t.Fatalf("ChangeMaxPoints did not reset buffer, Len=%d", g.Len())
	}
	for i := 0; i < 5; i++ {
		g.AddPoint(float64(i))
	}
	if g.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 after capacity increase", g.Len())
	}
}

func TestManagerRoutesSurveyorMessagesByModuleID(t *testing.T) {
	fleet := module.FleetConfig{NumModules: 3, MutantID: 2}
	m := NewManager(fleet, 4)

	msgs := []message.Envelope{
		message.NewSurveyorResponse(0, message.SurveyorResponse{DataRate: 100}),
		message.NewSurveyorResponse(1, message.SurveyorResponse{DataRate: 200}),
		message.NewECCStatusResponse(0, message.DefaultECCStatusResponse()),
	}
	m.HandleMessages(msgs)

	if g := m.Graph(0); g == nil || g.Len() != 1 || g.points[0] != 100 {
		t.Fatalf("graph 0 did not receive its data rate")
	}
	if g := m.Graph(1); g == nil || g.Len() != 1 || g.points[0] != 200 {
		t.Fatalf("graph 1 did not receive its data rate")
	}
}
