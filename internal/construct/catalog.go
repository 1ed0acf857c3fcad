package construct

import (
	"fmt"
	"slices"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

// Tool tokens. One entry per distinct construction protocol, even where
// several build the same shape kind.
const (
	TokenLine           = "line"
	TokenLineHorizontal = "line-horizontal"
	TokenLineVertical   = "line-vertical"
	TokenRect           = "rect"
	TokenCircleCenter   = "circle-center"
	TokenCircleDiameter = "circle-diameter"
	TokenCircle3Pt      = "circle-3pt"
	TokenArc3Pt         = "arc-3pt"
	TokenArcTangent     = "arc-tangent"
	TokenArcCenter      = "arc-center"
	TokenEllipseCenter  = "ellipse-center"
	TokenEllipseCorners = "ellipse-corners"
	TokenPolyline       = "polyline"
	TokenPolygon        = "polygon"
	TokenSpline         = "spline"
	TokenSplineClosed   = "spline-closed"
	TokenFreehand       = "freehand"
)

// Catalog builds one fresh tool instance per kind.
func Catalog() []*Tool {
	specs := []Spec{
		{Token: TokenLine, RequiredPoints: 2, Solve: solveLine},
		{Token: TokenLineHorizontal, RequiredPoints: 2, Transform: lockHorizontal, Solve: solveLine},
		{Token: TokenLineVertical, RequiredPoints: 2, Transform: lockVertical, Solve: solveLine},
		{Token: TokenRect, RequiredPoints: 2, Solve: solveRect},
		{Token: TokenCircleCenter, RequiredPoints: 2, Solve: solveCircleCenter},
		{Token: TokenCircleDiameter, RequiredPoints: 2, Solve: solveCircleDiameter},
		{Token: TokenCircle3Pt, RequiredPoints: 3, Solve: solveCircle3Pt},
		{Token: TokenArc3Pt, RequiredPoints: 3, Solve: solveArc3Pt},
		{Token: TokenArcTangent, RequiredPoints: 3, Solve: solveArcTangent},
		{Token: TokenArcCenter, RequiredPoints: 3, Solve: solveArcCenter},
		{Token: TokenEllipseCenter, RequiredPoints: 2, Solve: solveEllipseCenter},
		{Token: TokenEllipseCorners, RequiredPoints: 3, Solve: solveEllipseCorners},
		{Token: TokenPolyline, RequiredPoints: Unbounded, Solve: solvePolyline},
		{Token: TokenPolygon, RequiredPoints: Unbounded, Solve: solvePolygon},
		{Token: TokenSpline, RequiredPoints: Unbounded, Solve: solveSpline},
		{Token: TokenSplineClosed, RequiredPoints: Unbounded, Solve: solveSplineClosed},
		{Token: TokenFreehand, RequiredPoints: Unbounded, Solve: solveSpline},
	}

	tools := make([]*Tool, len(specs))
	for i, s := range specs {
		tools[i] = NewTool(s)
	}
	return tools
}

// RegisterCatalog registers the full tool catalog on a manager.
func RegisterCatalog(m *Manager) error {
	for _, t := range Catalog() {
		if err := m.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// lockHorizontal forces every point after the first onto the first point's
// horizontal, so the collected points are always axis-aligned.
func lockHorizontal(collected []geom.Point, p geom.Point) geom.Point {
	if len(collected) > 0 {
		p.Y = collected[0].Y
	}
	return p
}

func lockVertical(collected []geom.Point, p geom.Point) geom.Point {
	if len(collected) > 0 {
		p.X = collected[0].X
	}
	return p
}

func solveLine(pts []geom.Point) (shape.Shape, error) {
	return shape.Line{A: pts[0], B: pts[1]}, nil
}

func solveRect(pts []geom.Point) (shape.Shape, error) {
	a, b := pts[0], pts[1]
	return shape.Polygon{
		Vertices: []geom.Point{a, geom.Pt(b.X, a.Y), b, geom.Pt(a.X, b.Y)},
		Closed:   true,
	}, nil
}

func solveCircleCenter(pts []geom.Point) (shape.Shape, error) {
	return shape.Circle{Center: pts[0], Radius: pts[0].Distance(pts[1])}, nil
}

func solveCircleDiameter(pts []geom.Point) (shape.Shape, error) {
	return shape.Circle{
		Center: pts[0].Midpoint(pts[1]),
		Radius: pts[0].Distance(pts[1]) / 2,
	}, nil
}

func solveCircle3Pt(pts []geom.Point) (shape.Shape, error) {
	center, radius, err := geom.Circumcircle(pts[0], pts[1], pts[2])
	if err != nil {
		return nil, err
	}
	return shape.Circle{Center: center, Radius: radius}, nil
}

func solveArc3Pt(pts []geom.Point) (shape.Shape, error) {
	arc, err := geom.ArcThrough3Points(pts[0], pts[1], pts[2])
	if err != nil {
		return nil, err
	}
	return arcShape(arc), nil
}

func solveArcTangent(pts []geom.Point) (shape.Shape, error) {
	arc, err := geom.TangentArc(pts[0], pts[1], pts[2])
	if err != nil {
		return nil, err
	}
	return arcShape(arc), nil
}

func solveArcCenter(pts []geom.Point) (shape.Shape, error) {
	arc, err := geom.ArcFromCenter(pts[0], pts[1], pts[2])
	if err != nil {
		return nil, err
	}
	return arcShape(arc), nil
}

func solveEllipseCenter(pts []geom.Point) (shape.Shape, error) {
	rx, ry := geom.EllipseFromCenterAndCorner(pts[0], pts[1])
	return shape.Ellipse{Center: pts[0], RX: rx, RY: ry}, nil
}

func solveEllipseCorners(pts []geom.Point) (shape.Shape, error) {
	center, rx, ry := geom.EllipseFromCorners(pts[0], pts[1], pts[2])
	return shape.Ellipse{Center: center, RX: rx, RY: ry}, nil
}

func solvePolyline(pts []geom.Point) (shape.Shape, error) {
	return shape.Polygon{Vertices: slices.Clone(pts), Closed: false}, nil
}

func solvePolygon(pts []geom.Point) (shape.Shape, error) {
	return shape.Polygon{Vertices: slices.Clone(pts), Closed: true}, nil
}

func solveSpline(pts []geom.Point) (shape.Shape, error) {
	anchors, closed := geom.FitSmoothPath(pts)
	if len(anchors) == 0 {
		return nil, fmt.Errorf("spline: not enough distinct points: %w", geom.ErrDegenerate)
	}
	return shape.FromPathPoints(anchors, closed), nil
}

// solveSplineClosed closes the trace back to its first point before fitting,
// so every anchor gets wrap-around neighbors.
func solveSplineClosed(pts []geom.Point) (shape.Shape, error) {
	trace := append(slices.Clone(pts), pts[0])
	anchors, closed := geom.FitSmoothPath(trace)
	if len(anchors) == 0 || !closed {
		return nil, fmt.Errorf("closed spline: not enough distinct points: %w", geom.ErrDegenerate)
	}
	return shape.FromPathPoints(anchors, true), nil
}

func arcShape(a geom.ArcGeom) shape.Arc {
	return shape.Arc{
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: a.StartAngle,
		EndAngle:   a.EndAngle,
	}
}
