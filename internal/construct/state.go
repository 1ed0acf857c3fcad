// Package construct implements the gesture lifecycle for the drawing tools:
// per-tool state machines that turn an ordered sequence of snapped points
// into a finished shape, and the manager that routes input to the one active
// tool.
package construct

import "github.com/draftroom/draftroom/backend-go/internal/geom"

// Lifecycle is the gesture state of one tool.
type Lifecycle string

const (
	// LifecycleIdle means the tool is not active; entered only on deactivation.
	LifecycleIdle Lifecycle = "idle"
	// LifecycleActive means the tool is ready for the first point of a gesture.
	LifecycleActive Lifecycle = "active"
	// LifecycleCollecting means at least one point has been accepted.
	LifecycleCollecting Lifecycle = "collecting"
	// LifecycleCompleting is the transient state while the solver runs. A tool
	// is never observed here between calls; every completion path returns to
	// LifecycleActive.
	LifecycleCompleting Lifecycle = "completing"
)

// State is the mutable gesture record owned by exactly one tool. The point
// buffer is cleared, not reallocated, so a tool stays ready for the next
// gesture without churn.
type State struct {
	lifecycle Lifecycle
	points    []geom.Point
}

func newState() State {
	return State{lifecycle: LifecycleIdle}
}

// Lifecycle returns the current gesture state.
func (s *State) Lifecycle() Lifecycle {
	return s.lifecycle
}

// Points returns a copy of the accumulated gesture points in submission
// order.
func (s *State) Points() []geom.Point {
	out := make([]geom.Point, len(s.points))
	copy(out, s.points)
	return out
}

// PointCount returns how many points the current gesture holds.
func (s *State) PointCount() int {
	return len(s.points)
}

func (s *State) append(p geom.Point) {
	s.points = append(s.points, p)
}

// reset clears the buffer and moves to the given lifecycle state. Every
// failure path funnels through here, so the state is never left partially
// mutated.
func (s *State) reset(to Lifecycle) {
	s.points = s.points[:0]
	s.lifecycle = to
}
