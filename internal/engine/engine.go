// Package engine ties one drawing to one tool manager behind a
// transport-independent command surface. The websocket session layer and the
// wasm build both wrap an Engine; neither reaches into the construction core
// directly.
package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/draftroom/draftroom/backend-go/internal/construct"
	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

// Notice is a queued non-fatal user message produced while constructing.
type Notice struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
}

// Inserted records one entity the engine placed since the last drain.
type Inserted struct {
	EntityID string `json:"entityId"`
	Kind     string `json:"kind"`
}

// Engine owns one drawing, the tool manager working on it, and the viewport
// transform mapping incoming screen points into drawing coordinates. All
// methods must be called from a single goroutine; the engine has no internal
// locking.
type Engine struct {
	drawing *document.Drawing
	tools   *construct.Manager
	view    geom.Matrix
	invView geom.Matrix

	style document.Style
	dirty bool

	notices  []Notice
	inserted []Inserted
}

// New creates an engine over the given drawing with the full tool catalog
// registered. The snap resolver may be nil for raw input.
func New(drawing *document.Drawing, snapper construct.SnapResolver) (*Engine, error) {
	e := &Engine{
		drawing: drawing,
		view:    geom.Identity(),
		invView: geom.Identity(),
		style:   document.DefaultStyle(),
	}

	e.tools = construct.NewManager(construct.Collaborators{
		Snap:   snapper,
		Sink:   sinkFunc(e.insert),
		Notice: e.notice,
	})
	if err := construct.RegisterCatalog(e.tools); err != nil {
		return nil, fmt.Errorf("register tool catalog: %w", err)
	}
	return e, nil
}

type sinkFunc func(s shape.Shape) (string, error)

func (f sinkFunc) Insert(s shape.Shape) (string, error) { return f(s) }

func (e *Engine) insert(s shape.Shape) (string, error) {
	id, err := e.drawing.InsertShape(s, e.style)
	if err != nil {
		return "", err
	}
	e.dirty = true
	e.inserted = append(e.inserted, Inserted{EntityID: id, Kind: string(s.Kind())})
	return id, nil
}

func (e *Engine) notice(tool string, err error) {
	slog.Debug("construction notice", "tool", tool, "error", err)
	e.notices = append(e.notices, Notice{
		Tool:    tool,
		Message: "could not construct shape from these points",
	})
}

// Tools exposes the manager, e.g. for activation observers.
func (e *Engine) Tools() *construct.Manager { return e.tools }

// --- Commands ---

// ActivateTool switches the active construction tool.
func (e *Engine) ActivateTool(token string) error {
	return e.tools.Activate(token)
}

// DeactivateTool leaves no tool active.
func (e *Engine) DeactivateTool() {
	e.tools.Deactivate()
}

// SubmitPointer routes one pointer position, given in screen coordinates,
// through the inverse viewport transform into the active gesture.
func (e *Engine) SubmitPointer(screenX, screenY float64) {
	p := e.invView.Apply(geom.Pt(screenX, screenY))
	e.tools.RouteEvent(construct.Event{Kind: construct.EventPoint, Point: p})
}

// FinishGesture completes an unbounded gesture (double-click, confirm key).
func (e *Engine) FinishGesture() {
	e.tools.RouteEvent(construct.Event{Kind: construct.EventFinish})
}

// CancelGesture discards the in-progress gesture (escape key).
func (e *Engine) CancelGesture() {
	e.tools.RouteEvent(construct.Event{Kind: construct.EventCancel})
}

// SetView replaces the viewport transform. A singular matrix is rejected.
func (e *Engine) SetView(m geom.Matrix) error {
	if m.Determinant() == 0 {
		return fmt.Errorf("singular view matrix")
	}
	e.view = m
	e.invView = m.Invert()
	return nil
}

// SetStyle changes the style applied to subsequently inserted entities.
func (e *Engine) SetStyle(style document.Style) {
	e.style = style
}

// DeleteEntity removes an entity from the drawing.
func (e *Engine) DeleteEntity(id string) error {
	if err := e.drawing.DeleteEntity(id); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// SetEntityStyle restyles an existing entity.
func (e *Engine) SetEntityStyle(id string, style document.Style) error {
	if err := e.drawing.SetEntityStyle(id, style); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// LoadDrawing replaces the engine's drawing from its JSON snapshot form.
// Any in-progress gesture is cancelled.
func (e *Engine) LoadDrawing(data []byte) error {
	var d document.Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("unmarshal drawing: %w", err)
	}

	e.tools.RouteEvent(construct.Event{Kind: construct.EventCancel})
	e.drawing = &d
	e.dirty = false
	return nil
}

// --- Queries ---

// ActiveTool returns the active tool token, or "".
func (e *Engine) ActiveTool() string {
	return e.tools.Active()
}

// PendingPoints returns the points of the in-progress gesture, in drawing
// coordinates, for external preview rendering.
func (e *Engine) PendingPoints() []geom.Point {
	t := e.tools.ActiveTool()
	if t == nil {
		return nil
	}
	return t.State().Points()
}

// Drawing returns the engine's drawing.
func (e *Engine) Drawing() *document.Drawing {
	return e.drawing
}

// DrawingJSON returns the drawing's snapshot form.
func (e *Engine) DrawingJSON() ([]byte, error) {
	data, err := json.Marshal(e.drawing)
	if err != nil {
		return nil, fmt.Errorf("marshal drawing: %w", err)
	}
	return data, nil
}

// Dirty reports whether the drawing changed since the last MarkSaved.
func (e *Engine) Dirty() bool { return e.dirty }

// MarkSaved clears the dirty flag after a successful snapshot write.
func (e *Engine) MarkSaved() { e.dirty = false }

// DrainNotices returns and clears the queued construction notices.
func (e *Engine) DrainNotices() []Notice {
	out := e.notices
	e.notices = nil
	return out
}

// DrainInserted returns and clears the entities placed since the last drain.
func (e *Engine) DrainInserted() []Inserted {
	out := e.inserted
	e.inserted = nil
	return out
}
