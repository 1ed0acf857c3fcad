// Package shape defines the finished-geometry descriptors the construction
// tools hand to the document once a gesture completes.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

type Kind string

const (
	KindLine       Kind = "Line"
	KindArc        Kind = "Arc"
	KindCircle     Kind = "Circle"
	KindEllipse    Kind = "Ellipse"
	KindPolygon    Kind = "Polygon"
	KindBezierPath Kind = "BezierPath"
)

var ErrInvalid = errors.New("invalid shape")

// Shape is a finished geometric result. Every descriptor must hold only
// finite numbers and non-negative extents; Validate enforces that before a
// shape is allowed to reach the document.
type Shape interface {
	Kind() Kind
	Validate() error
}

type Line struct {
	A geom.Point `json:"a"`
	B geom.Point `json:"b"`
}

func (Line) Kind() Kind { return KindLine }

func (l Line) Validate() error {
	if !l.A.IsFinite() || !l.B.IsFinite() {
		return fmt.Errorf("line: non-finite endpoint: %w", ErrInvalid)
	}
	return nil
}

type Arc struct {
	Center     geom.Point `json:"center"`
	Radius     float64    `json:"radius"`
	StartAngle float64    `json:"startAngle"`
	EndAngle   float64    `json:"endAngle"`
}

func (Arc) Kind() Kind { return KindArc }

func (a Arc) Validate() error {
	if !a.Center.IsFinite() || !isFinite(a.Radius, a.StartAngle, a.EndAngle) {
		return fmt.Errorf("arc: non-finite field: %w", ErrInvalid)
	}
	if a.Radius < 0 {
		return fmt.Errorf("arc: negative radius: %w", ErrInvalid)
	}
	if a.EndAngle < a.StartAngle {
		return fmt.Errorf("arc: reversed angular interval: %w", ErrInvalid)
	}
	return nil
}

type Circle struct {
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) Validate() error {
	if !c.Center.IsFinite() || !isFinite(c.Radius) {
		return fmt.Errorf("circle: non-finite field: %w", ErrInvalid)
	}
	if c.Radius < 0 {
		return fmt.Errorf("circle: negative radius: %w", ErrInvalid)
	}
	return nil
}

type Ellipse struct {
	Center   geom.Point `json:"center"`
	RX       float64    `json:"rx"`
	RY       float64    `json:"ry"`
	Rotation float64    `json:"rotation"`
}

func (Ellipse) Kind() Kind { return KindEllipse }

func (e Ellipse) Validate() error {
	if !e.Center.IsFinite() || !isFinite(e.RX, e.RY, e.Rotation) {
		return fmt.Errorf("ellipse: non-finite field: %w", ErrInvalid)
	}
	if e.RX < 0 || e.RY < 0 {
		return fmt.Errorf("ellipse: negative radius: %w", ErrInvalid)
	}
	return nil
}

type Polygon struct {
	Vertices []geom.Point `json:"vertices"`
	Closed   bool         `json:"closed"`
}

func (Polygon) Kind() Kind { return KindPolygon }

func (p Polygon) Validate() error {
	if len(p.Vertices) < 2 {
		return fmt.Errorf("polygon: fewer than 2 vertices: %w", ErrInvalid)
	}
	for _, v := range p.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("polygon: non-finite vertex: %w", ErrInvalid)
		}
	}
	return nil
}

// BezierPath is a chain of cubic segments. ControlPoints holds
// anchor, control, control, anchor, control, control, anchor, … so its
// length is 1+3n for n segments. A closed path's final segment ends at the
// first anchor.
type BezierPath struct {
	ControlPoints []geom.Point `json:"controlPoints"`
	Closed        bool         `json:"closed"`
}

func (BezierPath) Kind() Kind { return KindBezierPath }

func (b BezierPath) Validate() error {
	if len(b.ControlPoints) < 4 || (len(b.ControlPoints)-1)%3 != 0 {
		return fmt.Errorf("bezier path: malformed control chain of %d points: %w", len(b.ControlPoints), ErrInvalid)
	}
	for _, v := range b.ControlPoints {
		if !v.IsFinite() {
			return fmt.Errorf("bezier path: non-finite control point: %w", ErrInvalid)
		}
	}
	return nil
}

// FromPathPoints flattens fitted anchors into a BezierPath control chain.
// A closed path gets one extra wrap-around segment back to the first anchor.
func FromPathPoints(anchors []geom.PathPoint, closed bool) BezierPath {
	if len(anchors) == 0 {
		return BezierPath{}
	}

	pts := make([]geom.Point, 0, 3*len(anchors)+1)
	pts = append(pts, anchors[0].Anchor)
	for i := 1; i < len(anchors); i++ {
		pts = append(pts, anchors[i-1].ControlAfter, anchors[i].ControlBefore, anchors[i].Anchor)
	}
	if closed {
		last := anchors[len(anchors)-1]
		pts = append(pts, last.ControlAfter, anchors[0].ControlBefore, anchors[0].Anchor)
	}
	return BezierPath{ControlPoints: pts, Closed: closed}
}

func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
