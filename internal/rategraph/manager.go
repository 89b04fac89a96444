package rategraph

import (
	"sync"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// Manager owns one Graph per CoBo and routes Surveyor response
// envelopes drained from the hub to the matching graph. HandleMessages
// runs on the hub drain goroutine while ResetAll is called from the
// orchestrator's StartRun on the command-dispatch goroutine (see
// cmd/attpc-envoyd/connect.go); mu serializes the two.
type Manager struct {
	mu     sync.Mutex
	graphs []*Graph
}

// NewManager constructs a Manager with one Graph per CoBo in fleet,
// each starting at the given capacity.
func NewManager(fleet module.FleetConfig, maxPoints int) *Manager {
	graphs := make([]*Graph, fleet.NumCobos())
	for id := range graphs {
		graphs[id] = NewGraph(fleet.SourceName(id), maxPoints)
	}
	return &Manager{graphs: graphs}
}

// Graph returns the ring buffer for CoBo id, or nil if id is out of range.
func (m *Manager) Graph(id int) *Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.graph(id)
}

func (m *Manager) graph(id int) *Graph {
	if id < 0 || id >= len(m.graphs) {
		return nil
	}
	return m.graphs[id]
}

// HandleMessages feeds every Surveyor envelope's data rate into its
// module's graph; other kinds are ignored.
func (m *Manager) HandleMessages(msgs []message.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		if msg.Kind() != message.KindSurveyor {
			continue
		}
		resp, err := msg.AsSurveyor()
		if err != nil {
			continue
		}
		if g := m.graph(msg.ModuleID()); g != nil {
			g.AddPoint(resp.DataRate)
		}
	}
}

// ResetAll empties every graph's buffer.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.graphs {
		g.Reset()
	}
}

// SetMaxPoints changes every graph's capacity, resetting each.
func (m *Manager) SetMaxPoints(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.graphs {
		g.ChangeMaxPoints(n)
	}
}
