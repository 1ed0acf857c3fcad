package construct

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

type activation struct {
	In  string
	Out string
}

func newTestManager(t *testing.T, rec *recorder) *Manager {
	t.Helper()
	m := NewManager(rec.collaborators())
	if err := RegisterCatalog(m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRegisterDuplicateToken(t *testing.T) {
	m := NewManager(Collaborators{})
	tool := NewTool(Spec{Token: "x", RequiredPoints: 2, Solve: solveLine})

	if err := m.Register(tool); err != nil {
		t.Fatal(err)
	}
	err := m.Register(NewTool(Spec{Token: "x", RequiredPoints: 2, Solve: solveLine}))
	if !errors.Is(err, ErrDuplicateToken) {
		t.Errorf("got %v, expected ErrDuplicateToken", err)
	}
}

func TestActivateUnknownToken(t *testing.T) {
	rec := &recorder{}
	m := newTestManager(t, rec)

	if err := m.Activate(TokenLine); err != nil {
		t.Fatal(err)
	}
	err := m.Activate("no-such-tool")
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("got %v, expected ErrUnknownTool", err)
	}
	if got := m.Active(); got != TokenLine {
		t.Errorf("active tool changed to %q after failed activation", got)
	}
}

func TestActivationNotifications(t *testing.T) {
	rec := &recorder{}
	m := newTestManager(t, rec)

	var got []activation
	m.Subscribe(func(in, out string) {
		got = append(got, activation{In: in, Out: out})
	})

	if err := m.Activate(TokenLine); err != nil {
		t.Fatal(err)
	}
	// Re-activating the active tool must not notify.
	if err := m.Activate(TokenLine); err != nil {
		t.Fatal(err)
	}
	if err := m.Activate(TokenArc3Pt); err != nil {
		t.Fatal(err)
	}
	m.Deactivate()
	m.Deactivate() // no-op, nothing active

	want := []activation{
		{In: TokenLine, Out: ""},
		{In: TokenArc3Pt, Out: TokenLine},
		{In: "", Out: TokenArc3Pt},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestSwitchingToolsDiscardsGesture(t *testing.T) {
	rec := &recorder{}
	m := newTestManager(t, rec)

	if err := m.Activate(TokenLine); err != nil {
		t.Fatal(err)
	}
	m.RouteEvent(Event{Kind: EventPoint, Point: geom.Pt(1, 1)})

	lineTool := m.ActiveTool()
	if err := m.Activate(TokenCircleCenter); err != nil {
		t.Fatal(err)
	}

	if got := lineTool.State().Lifecycle(); got != LifecycleIdle {
		t.Errorf("got %v, expected idle after deactivation", got)
	}
	if lineTool.State().PointCount() != 0 {
		t.Errorf("deactivated tool kept gesture points")
	}
}

func TestRouteEventWithoutActiveTool(t *testing.T) {
	rec := &recorder{}
	m := newTestManager(t, rec)

	// Dropped, not routed anywhere.
	m.RouteEvent(Event{Kind: EventPoint, Point: geom.Pt(1, 1)})
	m.RouteEvent(Event{Kind: EventFinish})
	m.RouteEvent(Event{Kind: EventCancel})

	if len(rec.shapes) != 0 || len(rec.notices) != 0 {
		t.Errorf("events without an active tool reached collaborators")
	}
}

func TestRouteCancelEvent(t *testing.T) {
	rec := &recorder{}
	m := newTestManager(t, rec)

	if err := m.Activate(TokenPolyline); err != nil {
		t.Fatal(err)
	}
	m.RouteEvent(Event{Kind: EventPoint, Point: geom.Pt(0, 0)})
	m.RouteEvent(Event{Kind: EventPoint, Point: geom.Pt(1, 0)})
	m.RouteEvent(Event{Kind: EventCancel})

	st := m.ActiveTool().State()
	if st.Lifecycle() != LifecycleActive || st.PointCount() != 0 {
		t.Errorf("cancel left lifecycle=%v points=%d", st.Lifecycle(), st.PointCount())
	}
	if len(rec.shapes) != 0 {
		t.Errorf("cancelled gesture reached the sink")
	}
}

func TestEveryCatalogToolCompletes(t *testing.T) {
	// Generic round trip over the whole catalog: n non-degenerate points
	// in, exactly one shape out.
	points := map[string][]geom.Point{
		TokenLine:           {geom.Pt(0, 0), geom.Pt(4, 2)},
		TokenLineHorizontal: {geom.Pt(0, 1), geom.Pt(6, 9)},
		TokenLineVertical:   {geom.Pt(2, 0), geom.Pt(7, 5)},
		TokenRect:           {geom.Pt(0, 0), geom.Pt(4, 3)},
		TokenCircleCenter:   {geom.Pt(0, 0), geom.Pt(3, 4)},
		TokenCircleDiameter: {geom.Pt(0, 0), geom.Pt(10, 0)},
		TokenCircle3Pt:      {geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 0)},
		TokenArc3Pt:         {geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 0)},
		TokenArcTangent:     {geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 0)},
		TokenArcCenter:      {geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(0, 2)},
		TokenEllipseCenter:  {geom.Pt(0, 0), geom.Pt(3, 2)},
		TokenEllipseCorners: {geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 6)},
		TokenPolyline:       {geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1)},
		TokenPolygon:        {geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 3)},
		TokenSpline:         {geom.Pt(0, 0), geom.Pt(5, 5), geom.Pt(10, 0)},
		TokenSplineClosed:   {geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, 8)},
		TokenFreehand:       {geom.Pt(0, 0), geom.Pt(1, 2), geom.Pt(2, 1), geom.Pt(3, 3)},
	}

	for _, tool := range Catalog() {
		pts, ok := points[tool.Token()]
		if !ok {
			t.Errorf("no test points for tool %q", tool.Token())
			continue
		}

		t.Run(tool.Token(), func(t *testing.T) {
			rec := &recorder{}
			tool.Activate()
			for _, p := range pts {
				tool.SubmitPoint(p, rec.collaborators())
			}
			tool.Finish(rec.collaborators()) // no-op for fixed-count tools

			if len(rec.shapes) != 1 {
				t.Fatalf("sink called %d times (notices: %v), expected once", len(rec.shapes), rec.notices)
			}
			if err := rec.shapes[0].Validate(); err != nil {
				t.Errorf("emitted shape invalid: %v", err)
			}
			if got := tool.State().Lifecycle(); got != LifecycleActive {
				t.Errorf("got %v, expected active after completion", got)
			}
		})
	}
}
