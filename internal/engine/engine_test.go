package engine

import (
	"testing"

	"github.com/draftroom/draftroom/backend-go/internal/construct"
	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(document.NewEmptyDrawing("drw_test", "Test"), nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestLineGesture(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ActivateTool(construct.TokenLine); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(0, 0)
	e.SubmitPointer(10, 10)

	inserted := e.DrainInserted()
	if len(inserted) != 1 {
		t.Fatalf("got %d inserted events, expected 1", len(inserted))
	}
	if inserted[0].Kind != string(shape.KindLine) {
		t.Errorf("inserted kind %q", inserted[0].Kind)
	}
	if _, ok := e.Drawing().Entities[inserted[0].EntityID]; !ok {
		t.Errorf("inserted entity %q not in drawing", inserted[0].EntityID)
	}
	if !e.Dirty() {
		t.Errorf("drawing not marked dirty after insert")
	}
	if len(e.DrainInserted()) != 0 {
		t.Errorf("drain did not clear the queue")
	}
}

func TestViewTransformAppliedToPointer(t *testing.T) {
	e := newTestEngine(t)

	// Zoom 2x with a panned origin. Screen (20, 30) lands on drawing (5, 10).
	view := geom.Translation(10, 10).Mul(geom.Scaling(2, 2))
	if err := e.SetView(view); err != nil {
		t.Fatal(err)
	}

	if err := e.ActivateTool(construct.TokenLine); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(20, 30)

	pts := e.PendingPoints()
	if len(pts) != 1 {
		t.Fatalf("got %d pending points, expected 1", len(pts))
	}
	if !pts[0].Near(geom.Pt(5, 10), 1e-9) {
		t.Errorf("pointer mapped to %v, expected (5, 10)", pts[0])
	}
}

func TestSetViewRejectsSingular(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetView(geom.Scaling(0, 1)); err == nil {
		t.Errorf("singular view matrix accepted")
	}
}

func TestDegenerateGestureQueuesNotice(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ActivateTool(construct.TokenCircle3Pt); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(0, 0)
	e.SubmitPointer(1, 0)
	e.SubmitPointer(2, 0) // collinear

	if got := e.DrainInserted(); len(got) != 0 {
		t.Errorf("degenerate gesture inserted %v", got)
	}
	notices := e.DrainNotices()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, expected 1", len(notices))
	}
	if notices[0].Tool != construct.TokenCircle3Pt {
		t.Errorf("notice names tool %q", notices[0].Tool)
	}
	if e.Dirty() {
		t.Errorf("failed gesture marked the drawing dirty")
	}
}

func TestStyleAppliedToInserts(t *testing.T) {
	e := newTestEngine(t)
	want := document.Style{Stroke: "#00ff00", StrokeWidth: 2, Fill: ""}
	e.SetStyle(want)

	if err := e.ActivateTool(construct.TokenLine); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(0, 0)
	e.SubmitPointer(3, 4)

	inserted := e.DrainInserted()
	if len(inserted) != 1 {
		t.Fatalf("got %d inserted events, expected 1", len(inserted))
	}
	if got := e.Drawing().Entities[inserted[0].EntityID].Style; got != want {
		t.Errorf("got style %+v, expected %+v", got, want)
	}
}

func TestUnknownToolError(t *testing.T) {
	e := newTestEngine(t)
	if err := e.ActivateTool("no-such-tool"); err == nil {
		t.Errorf("unknown token accepted")
	}
	if got := e.ActiveTool(); got != "" {
		t.Errorf("active tool %q after failed activation", got)
	}
}

func TestLoadDrawingCancelsGesture(t *testing.T) {
	e := newTestEngine(t)
	if err := e.ActivateTool(construct.TokenPolyline); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(0, 0)
	e.SubmitPointer(1, 1)

	snapshot, err := e.DrawingJSON()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.LoadDrawing(snapshot); err != nil {
		t.Fatal(err)
	}

	if got := e.PendingPoints(); len(got) != 0 {
		t.Errorf("gesture survived a document load: %v", got)
	}
	if e.Dirty() {
		t.Errorf("freshly loaded drawing marked dirty")
	}
}

func TestMarkSaved(t *testing.T) {
	e := newTestEngine(t)
	if err := e.ActivateTool(construct.TokenLine); err != nil {
		t.Fatal(err)
	}
	e.SubmitPointer(0, 0)
	e.SubmitPointer(1, 1)

	if !e.Dirty() {
		t.Fatal("insert did not mark dirty")
	}
	e.MarkSaved()
	if e.Dirty() {
		t.Errorf("dirty flag survived MarkSaved")
	}
}
