// Package rategraph implements the bounded ring-buffer rate history
// per module, and a manager that routes Surveyor envelopes to the
// right module's buffer. Grounded in
// _examples/original_source/src/ui/rate_graph.rs and graph_manager.rs,
// kept as a fixed-increment ring buffer rather than a wall-clock
// timestamp series, per spec.md §4.5.
package rategraph

// dt is the fixed time increment between samples (seconds), matching
// the Surveyor driver's 2-second poll interval.
const dt = 2.0

// Graph is a bounded ring buffer of rate samples for one module.
type Graph struct {
	name      string
	points    []float64
	maxPoints int
	lastTime  float64
}

// NewGraph constructs an empty graph with the given capacity.
func NewGraph(name string, maxPoints int) *Graph {
	return &Graph{name: name, maxPoints: maxPoints}
}

// Name returns the module name this graph tracks.
func (g *Graph) Name() string {
	return g.name
}

// Len returns the number of samples currently buffered.
func (g *Graph) Len() int {
	return len(g.points)
}

// LastTime returns the internal clock value after the most recent insert.
func (g *Graph) LastTime() float64 {
	return g.lastTime
}

// AddPoint appends a new rate sample, evicting the oldest if the
// buffer is at capacity, and advances the internal clock by dt.
func (g *Graph) AddPoint(rate float64) {
	if g.maxPoints <= 0 {
		return
	}
	if len(g.points) >= g.maxPoints {
		g.points = g.points[1:]
	}
	g.points = append(g.points, rate)
	g.lastTime += dt
}

// Reset empties the buffer and zeroes the clock.
func (g *Graph) Reset() {
	g.points = nil
	g.lastTime = 0
}

// ChangeMaxPoints updates the buffer's capacity. Resetting on change is
// intentional to avoid partial-window aliasing, per spec.md §4.5.
func (g *Graph) ChangeMaxPoints(n int) {
	g.maxPoints = n
	g.Reset()
}

// Point is one (time, rate) pair for plotting.
type Point struct {
	Time float64
	Rate float64
}

// PointsToDraw emits (-(len-1-i)*dt, rate_i) pairs so the newest sample
// sits at time 0 and older samples march into the past.
func (g *Graph) PointsToDraw() []Point {
	n := len(g.points)
	out := make([]Point, n)
	for i, rate := range g.points {
		out[i] = Point{Time: -float64(n-1-i) * dt, Rate: rate}
	}
	return out
}
