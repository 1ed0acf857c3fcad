package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/draftroom/draftroom/backend-go/internal/engine"
	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
)

// Saver persists a session's drawing document.
type Saver func(ctx context.Context, drawingID string, doc []byte) error

// Session is one live editing connection. The read pump is the single
// goroutine that touches the engine, which keeps the construction core
// strictly single-threaded.
type Session struct {
	registry  *Registry
	conn      *websocket.Conn
	send      chan []byte
	engine    *engine.Engine
	save      Saver
	SessionID string
	UserID    string
	DrawingID string
}

func New(reg *Registry, conn *websocket.Conn, eng *engine.Engine, save Saver, sessionID, userID, drawingID string) *Session {
	s := &Session{
		registry:  reg,
		conn:      conn,
		send:      make(chan []byte, 256),
		engine:    eng,
		save:      save,
		SessionID: sessionID,
		UserID:    userID,
		DrawingID: drawingID,
	}
	// Activation notifications go straight out on the wire.
	eng.Tools().Subscribe(func(activated, deactivated string) {
		s.push(TypeToolActive, ToolActivePayload{Activated: activated, Deactivated: deactivated})
	})
	return s
}

// ReadPump consumes client messages until the connection drops, then
// persists the drawing and unregisters the session.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.persist(context.Background())
		s.registry.remove(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)
	s.welcome()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.SessionID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.SessionID)
			continue
		}
		s.handle(ctx, &msg)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.SessionID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) handle(ctx context.Context, msg *Message) {
	switch msg.Type {
	case TypeToolActivate:
		var p ToolActivatePayload
		if !s.decode(msg, &p) {
			return
		}
		if err := s.engine.ActivateTool(p.Token); err != nil {
			s.pushError("unknown tool: " + p.Token)
		}

	case TypePointSubmit:
		var p PointPayload
		if !s.decode(msg, &p) {
			return
		}
		s.engine.SubmitPointer(p.X, p.Y)
		s.flushResults()

	case TypeGestureFinish:
		s.engine.FinishGesture()
		s.flushResults()

	case TypeGestureCancel:
		s.engine.CancelGesture()

	case TypeViewSet:
		var p ViewPayload
		if !s.decode(msg, &p) {
			return
		}
		if err := s.engine.SetView(geom.Matrix(p.Matrix)); err != nil {
			s.pushError("view matrix is not invertible")
		}

	case TypeStyleSet:
		var p StylePayload
		if !s.decode(msg, &p) {
			return
		}
		s.engine.SetStyle(p.Style)

	case TypeEntityDelete:
		var p EntityPayload
		if !s.decode(msg, &p) {
			return
		}
		if err := s.engine.DeleteEntity(p.EntityID); err != nil {
			s.pushError("no such entity: " + p.EntityID)
		}

	case TypeEntityStyle:
		var p EntityPayload
		if !s.decode(msg, &p) {
			return
		}
		if p.Style == nil {
			s.pushError("entity.style requires a style")
			return
		}
		if err := s.engine.SetEntityStyle(p.EntityID, *p.Style); err != nil {
			s.pushError("no such entity: " + p.EntityID)
		}

	case TypeDocGet:
		s.pushDoc()

	case TypeDocSave:
		if err := s.persist(ctx); err != nil {
			s.pushError("save failed")
		}

	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.SessionID)
	}
}

// flushResults sends everything a routed input event produced: inserted
// entities and degenerate-gesture notices.
func (s *Session) flushResults() {
	for _, ins := range s.engine.DrainInserted() {
		ent, ok := s.engine.Drawing().Entities[ins.EntityID]
		if !ok {
			continue
		}
		s.push(TypeShapeCreated, ShapeCreatedPayload{
			EntityID: ins.EntityID,
			Kind:     ins.Kind,
			Entity:   ent,
		})
	}
	for _, n := range s.engine.DrainNotices() {
		s.push(TypeNotice, n)
	}
}

func (s *Session) welcome() {
	doc, err := s.engine.DrawingJSON()
	if err != nil {
		slog.Error("marshal drawing for welcome", "error", err, "session", s.SessionID)
		return
	}
	s.push(TypeWelcome, WelcomePayload{
		SessionID: s.SessionID,
		DrawingID: s.DrawingID,
		Document:  doc,
	})
}

func (s *Session) pushDoc() {
	doc, err := s.engine.DrawingJSON()
	if err != nil {
		s.pushError("marshal drawing failed")
		return
	}
	s.push(TypeDocSync, json.RawMessage(doc))
}

func (s *Session) persist(ctx context.Context) error {
	if s.save == nil || !s.engine.Dirty() {
		return nil
	}
	doc, err := s.engine.DrawingJSON()
	if err != nil {
		return err
	}
	if err := s.save(ctx, s.DrawingID, doc); err != nil {
		slog.Error("save drawing", "error", err, "drawing", s.DrawingID)
		return err
	}
	s.engine.MarkSaved()
	return nil
}

func (s *Session) decode(msg *Message, into any) bool {
	if err := json.Unmarshal(msg.Payload, into); err != nil {
		slog.Warn("invalid payload", "type", msg.Type, "error", err, "session", s.SessionID)
		s.pushError("invalid payload for " + msg.Type)
		return false
	}
	return true
}

func (s *Session) pushError(msg string) {
	s.push(TypeError, ErrorPayload{Message: msg})
}

func (s *Session) push(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", msgType, "error", err)
		return
	}
	out, err := json.Marshal(Message{Type: msgType, Payload: data})
	if err != nil {
		slog.Error("marshal message", "type", msgType, "error", err)
		return
	}

	select {
	case s.send <- out:
	default:
		slog.Warn("send buffer full, dropping message", "type", msgType, "session", s.SessionID)
	}
}
