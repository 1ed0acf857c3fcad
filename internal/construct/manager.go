package construct

import (
	"fmt"
	"log/slog"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

// EventKind discriminates the input events the manager routes.
type EventKind string

const (
	// EventPoint submits one pointer position to the active tool.
	EventPoint EventKind = "point"
	// EventFinish completes an unbounded gesture.
	EventFinish EventKind = "finish"
	// EventCancel discards the in-progress gesture.
	EventCancel EventKind = "cancel"
)

// Event is one routed input event. Point is meaningful only for EventPoint.
type Event struct {
	Kind  EventKind
	Point geom.Point
}

// ActivationObserver is notified after the active tool changes. Exactly one
// of the tokens may be empty: activated on plain deactivation, deactivated
// when no tool was active before.
type ActivationObserver func(activated, deactivated string)

// Manager owns one tool instance per registered kind, tracks which is
// active, and routes input events to it. All methods must be called from the
// event-delivery goroutine; the manager does no internal locking.
type Manager struct {
	tools     map[string]*Tool
	active    string
	collab    Collaborators
	observers []ActivationObserver
}

// NewManager creates an empty manager wired to the given collaborators.
func NewManager(c Collaborators) *Manager {
	return &Manager{
		tools:  make(map[string]*Tool),
		collab: c,
	}
}

// Register adds a tool under its token. Registering a token twice is an
// error.
func (m *Manager) Register(t *Tool) error {
	if _, ok := m.tools[t.Token()]; ok {
		return fmt.Errorf("register %q: %w", t.Token(), ErrDuplicateToken)
	}
	m.tools[t.Token()] = t
	return nil
}

// Subscribe adds an activation-change observer.
func (m *Manager) Subscribe(obs ActivationObserver) {
	m.observers = append(m.observers, obs)
}

// Active returns the token of the active tool, or "" when none is active.
func (m *Manager) Active() string {
	return m.active
}

// ActiveTool returns the active tool instance, or nil.
func (m *Manager) ActiveTool() *Tool {
	if m.active == "" {
		return nil
	}
	return m.tools[m.active]
}

// Activate deactivates the current tool (if any) and activates the named
// one. Activating the already-active tool is a no-op that emits no
// notifications. An unknown token is an error and leaves the active tool
// unchanged.
func (m *Manager) Activate(token string) error {
	next, ok := m.tools[token]
	if !ok {
		return fmt.Errorf("activate %q: %w", token, ErrUnknownTool)
	}
	if token == m.active {
		return nil
	}

	prev := m.active
	if prev != "" {
		m.tools[prev].Deactivate()
	}
	next.Activate()
	m.active = token

	m.notify(token, prev)
	return nil
}

// Deactivate parks the active tool, leaving no tool active. No-op when
// nothing is active.
func (m *Manager) Deactivate() {
	if m.active == "" {
		return
	}
	prev := m.active
	m.tools[prev].Deactivate()
	m.active = ""
	m.notify("", prev)
}

// RouteEvent forwards an input event to the active tool. Events arriving
// with no active tool are dropped.
func (m *Manager) RouteEvent(ev Event) {
	t := m.ActiveTool()
	if t == nil {
		slog.Debug("event dropped, no active tool", "kind", ev.Kind)
		return
	}

	switch ev.Kind {
	case EventPoint:
		t.SubmitPoint(ev.Point, m.collab)
	case EventFinish:
		t.Finish(m.collab)
	case EventCancel:
		t.Cancel()
	default:
		slog.Debug("unknown event kind", "kind", ev.Kind)
	}
}

func (m *Manager) notify(activated, deactivated string) {
	for _, obs := range m.observers {
		obs(activated, deactivated)
	}
}
