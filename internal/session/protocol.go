// Package session runs one drawing session per websocket connection: input
// events in, construction results out. There is no cross-session traffic;
// each connection works on its own drawing.
package session

import (
	"encoding/json"

	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/engine"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server.
	TypeToolActivate  = "tool.activate"
	TypePointSubmit   = "point.submit"
	TypeGestureFinish = "gesture.finish"
	TypeGestureCancel = "gesture.cancel"
	TypeViewSet       = "view.set"
	TypeStyleSet      = "style.set"
	TypeEntityDelete  = "entity.delete"
	TypeEntityStyle   = "entity.style"
	TypeDocGet        = "doc.get"
	TypeDocSave       = "doc.save"

	// Server → client.
	TypeWelcome      = "welcome"
	TypeToolActive   = "tool.active"
	TypeShapeCreated = "shape.created"
	TypeNotice       = "notice"
	TypeDocSync      = "doc.sync"
	TypeError        = "error"
)

type ToolActivatePayload struct {
	Token string `json:"token"`
}

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ViewPayload struct {
	Matrix [6]float64 `json:"matrix"`
}

type StylePayload struct {
	Style document.Style `json:"style"`
}

type EntityPayload struct {
	EntityID string          `json:"entityId"`
	Style    *document.Style `json:"style,omitempty"`
}

type WelcomePayload struct {
	SessionID string          `json:"sessionId"`
	DrawingID string          `json:"drawingId"`
	Document  json.RawMessage `json:"document"`
}

type ToolActivePayload struct {
	Activated   string `json:"activated"`
	Deactivated string `json:"deactivated"`
}

type ShapeCreatedPayload struct {
	EntityID string          `json:"entityId"`
	Kind     string          `json:"kind"`
	Entity   document.Entity `json:"entity"`
}

type NoticePayload = engine.Notice

type ErrorPayload struct {
	Message string `json:"message"`
}
