package construct

import (
	"errors"
	"log/slog"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

var (
	// ErrUnknownTool reports an activation request for a token that was never
	// registered.
	ErrUnknownTool = errors.New("unknown tool token")
	// ErrDuplicateToken reports a second registration under the same token.
	ErrDuplicateToken = errors.New("tool token already registered")
)

// Unbounded marks a tool that collects points until an explicit finish
// signal.
const Unbounded = 0

// minFinishPoints is the fewest points a finish signal will complete an
// unbounded gesture with.
const minFinishPoints = 2

// SnapResolver adjusts a raw pointer position to a semantically meaningful
// nearby position. Implementations are total: when no snap applies they
// return the input unchanged.
type SnapResolver interface {
	Resolve(raw geom.Point, recent []geom.Point) geom.Point
}

// DocumentSink receives finished shapes. Insert is called exactly once per
// successfully completed gesture; the returned handle is not interpreted
// here.
type DocumentSink interface {
	Insert(s shape.Shape) (string, error)
}

// NoticeFunc surfaces a non-fatal construction failure (degenerate input) to
// the user. Never called for invalid transitions, which are only logged.
type NoticeFunc func(token string, err error)

// Collaborators bundles the external boundary objects a tool needs while
// handling input.
type Collaborators struct {
	Snap   SnapResolver
	Sink   DocumentSink
	Notice NoticeFunc
}

// Spec declares one tool kind: how many points it needs, how it adjusts
// incoming points, and how it turns the collected points into a shape.
// Immutable after registration.
type Spec struct {
	Token string

	// RequiredPoints is the fixed gesture length, or Unbounded for tools that
	// complete on an explicit finish signal.
	RequiredPoints int

	// Transform, when set, adjusts a snapped point before it is appended,
	// given the points collected so far. Applied once, at submission time.
	Transform func(collected []geom.Point, p geom.Point) geom.Point

	// Solve turns the accumulated points into a finished shape, or fails
	// with an error wrapping geom.ErrDegenerate.
	Solve func(points []geom.Point) (shape.Shape, error)
}

// Tool is one construction tool instance: a Spec plus the gesture state it
// exclusively owns.
type Tool struct {
	spec  Spec
	state State
}

// NewTool creates an idle tool from its spec.
func NewTool(spec Spec) *Tool {
	return &Tool{spec: spec, state: newState()}
}

func (t *Tool) Token() string { return t.spec.Token }

// State exposes the gesture state for inspection (lifecycle, pending
// points). Callers must not retain the pointer across events.
func (t *Tool) State() *State { return &t.state }

// Activate readies the tool for a new gesture.
func (t *Tool) Activate() {
	t.state.reset(LifecycleActive)
}

// Deactivate discards any in-progress gesture and parks the tool.
func (t *Tool) Deactivate() {
	t.state.reset(LifecycleIdle)
}

// Cancel discards the in-progress gesture and readies the tool for the next
// one. A cancel on an idle tool, or a repeated cancel, is a no-op.
func (t *Tool) Cancel() {
	if t.state.lifecycle == LifecycleIdle {
		return
	}
	t.state.reset(LifecycleActive)
}

// SubmitPoint resolves the raw point through the snap resolver, applies the
// tool's transform, appends the result, and completes the gesture when the
// point count satisfies the tool's requirement.
func (t *Tool) SubmitPoint(raw geom.Point, c Collaborators) {
	switch t.state.lifecycle {
	case LifecycleActive, LifecycleCollecting:
	default:
		slog.Debug("point submitted in invalid state", "tool", t.spec.Token, "state", t.state.lifecycle)
		return
	}

	p := raw
	if c.Snap != nil {
		p = c.Snap.Resolve(p, t.state.points)
	}
	if t.spec.Transform != nil {
		p = t.spec.Transform(t.state.points, p)
	}

	t.state.append(p)
	t.state.lifecycle = LifecycleCollecting

	if t.spec.RequiredPoints != Unbounded && t.state.PointCount() >= t.spec.RequiredPoints {
		t.complete(c)
	}
}

// Finish forces completion of an unbounded gesture. On a fixed-count tool,
// or with too few points, the signal is ignored.
func (t *Tool) Finish(c Collaborators) {
	if t.spec.RequiredPoints != Unbounded || t.state.lifecycle != LifecycleCollecting ||
		t.state.PointCount() < minFinishPoints {
		slog.Debug("finish signal ignored", "tool", t.spec.Token, "state", t.state.lifecycle, "points", t.state.PointCount())
		return
	}
	t.complete(c)
}

// complete runs the solver and hands the result to the document. Both
// outcomes clear the buffer and return the tool to Active; the tool is never
// left stuck in Completing.
func (t *Tool) complete(c Collaborators) {
	t.state.lifecycle = LifecycleCompleting

	s, err := t.spec.Solve(t.state.points)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		t.state.reset(LifecycleActive)
		slog.Debug("construction failed", "tool", t.spec.Token, "error", err)
		if c.Notice != nil {
			c.Notice(t.spec.Token, err)
		}
		return
	}

	t.state.reset(LifecycleActive)
	if c.Sink != nil {
		if _, err := c.Sink.Insert(s); err != nil {
			slog.Warn("document insert failed", "tool", t.spec.Token, "error", err)
			if c.Notice != nil {
				c.Notice(t.spec.Token, err)
			}
		}
	}
}
