package shape

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire and storage form of a Shape: the kind tag plus the
// descriptor's own JSON.
type Envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Wrap serializes a shape into an envelope.
func Wrap(s Shape) (Envelope, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", s.Kind(), err)
	}
	return Envelope{Kind: s.Kind(), Data: data}, nil
}

// Decode reconstructs the concrete shape from an envelope.
func (e Envelope) Decode() (Shape, error) {
	var s Shape
	switch e.Kind {
	case KindLine:
		s = &Line{}
	case KindArc:
		s = &Arc{}
	case KindCircle:
		s = &Circle{}
	case KindEllipse:
		s = &Ellipse{}
	case KindPolygon:
		s = &Polygon{}
	case KindBezierPath:
		s = &BezierPath{}
	default:
		return nil, fmt.Errorf("unknown shape kind %q: %w", e.Kind, ErrInvalid)
	}
	if err := json.Unmarshal(e.Data, s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", e.Kind, err)
	}
	return deref(s), nil
}

func deref(s Shape) Shape {
	switch v := s.(type) {
	case *Line:
		return *v
	case *Arc:
		return *v
	case *Circle:
		return *v
	case *Ellipse:
		return *v
	case *Polygon:
		return *v
	case *BezierPath:
		return *v
	}
	return s
}
