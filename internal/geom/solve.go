package geom

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the shared degeneracy threshold for the solvers: collinearity,
// zero-length chords and zero radii are all judged against it.
const Epsilon = 1e-6

// ErrDegenerate reports a point configuration for which no well-formed shape
// exists. Callers recover by discarding the gesture; it is never fatal.
var ErrDegenerate = errors.New("degenerate geometry")

// ArcGeom is a solved circular arc. The angular interval runs counter-
// clockwise from StartAngle to EndAngle, with EndAngle >= StartAngle.
type ArcGeom struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Circumcircle computes the circle through three points by intersecting the
// perpendicular bisectors of the two chords. It fails when the points are
// collinear within Epsilon or the bisectors are parallel.
func Circumcircle(p1, p2, p3 Point) (center Point, radius float64, err error) {
	v1 := p2.Sub(p1)
	v2 := p3.Sub(p2)
	if math.Abs(v1.Cross(v2)) < Epsilon {
		return Point{}, 0, fmt.Errorf("circumcircle: collinear points: %w", ErrDegenerate)
	}

	m1 := p1.Midpoint(p2)
	m2 := p2.Midpoint(p3)
	d1 := v1.Perp()
	d2 := v2.Perp()

	denom := d1.Cross(d2)
	if math.Abs(denom) < Epsilon {
		return Point{}, 0, fmt.Errorf("circumcircle: parallel bisectors: %w", ErrDegenerate)
	}

	t := m2.Sub(m1).Cross(d2) / denom
	center = m1.Translate(d1.Mul(t))
	return center, center.Distance(p1), nil
}

// ArcThrough3Points builds the arc from start to end passing through middle.
// The circle comes from Circumcircle; the direction ambiguity is resolved by
// picking the angular interval that contains the angle to middle.
func ArcThrough3Points(start, middle, end Point) (ArcGeom, error) {
	center, radius, err := Circumcircle(start, middle, end)
	if err != nil {
		return ArcGeom{}, err
	}

	a1 := start.Sub(center).Angle()
	a2 := end.Sub(center).Angle()
	am := middle.Sub(center).Angle()

	return arcInterval(center, radius, a1, a2, am), nil
}

// TangentArc builds an arc over the chord start→end whose bulge is set by the
// perpendicular distance from the chord midpoint to ref. A ref on (or very
// near) the chord falls back to a bulge of an eighth of the chord length.
func TangentArc(start, ref, end Point) (ArcGeom, error) {
	chord := end.Sub(start)
	length := chord.Hypot()
	if length < Epsilon {
		return ArcGeom{}, fmt.Errorf("tangent arc: zero-length chord: %w", ErrDegenerate)
	}

	mid := start.Midpoint(end)
	height := math.Min(ref.Distance(mid), length/2)
	if height < Epsilon {
		height = length / 8
	}
	radius := (length*length + 4*height*height) / (8 * height)

	// The arc bulges toward the side of the chord ref falls on.
	sign := 1.0
	if chord.Cross(ref.Sub(start)) < 0 {
		sign = -1.0
	}
	perp := chord.Perp().Normalize()
	apex := mid.Translate(perp.Mul(height * sign))
	center := mid.Translate(perp.Mul(-(radius - height) * sign))

	a1 := start.Sub(center).Angle()
	a2 := end.Sub(center).Angle()
	am := apex.Sub(center).Angle()

	return arcInterval(center, radius, a1, a2, am), nil
}

// ArcFromCenter builds the counter-clockwise arc about center from start to
// the direction of end. The radius is the center-to-start distance.
func ArcFromCenter(center, start, end Point) (ArcGeom, error) {
	radius := center.Distance(start)
	if radius < Epsilon {
		return ArcGeom{}, fmt.Errorf("center arc: zero radius: %w", ErrDegenerate)
	}

	a1 := start.Sub(center).Angle()
	a2 := end.Sub(center).Angle()
	return ArcGeom{
		Center:     center,
		Radius:     radius,
		StartAngle: a1,
		EndAngle:   a1 + normAngle(a2-a1),
	}, nil
}

// EllipseFromCenterAndCorner derives axis-aligned radii from a center point
// and the corner of the ellipse's bounding box. Total; a corner on an axis
// simply yields a zero radius.
func EllipseFromCenterAndCorner(center, corner Point) (rx, ry float64) {
	return math.Abs(corner.X - center.X), math.Abs(corner.Y - center.Y)
}

// EllipseFromCorners fits an axis-aligned ellipse into the bounding box of
// three points. Coincident points degenerate to a zero-radius ellipse.
func EllipseFromCorners(p1, p2, p3 Point) (center Point, rx, ry float64) {
	minX := math.Min(p1.X, math.Min(p2.X, p3.X))
	maxX := math.Max(p1.X, math.Max(p2.X, p3.X))
	minY := math.Min(p1.Y, math.Min(p2.Y, p3.Y))
	maxY := math.Max(p1.Y, math.Max(p2.Y, p3.Y))

	center = Pt(0.5*(minX+maxX), 0.5*(minY+maxY))
	return center, 0.5 * (maxX - minX), 0.5 * (maxY - minY)
}

// arcInterval picks the counter-clockwise interval from a1 to a2 or from a2
// to a1, whichever contains am. When both do (am on a shared boundary) the
// shorter interval wins.
func arcInterval(center Point, radius, a1, a2, am float64) ArcGeom {
	ccw := normAngle(a2 - a1)
	cw := 2*math.Pi - ccw

	inCCW := normAngle(am-a1) <= ccw
	inCW := normAngle(am-a2) <= cw
	start, sweep := a1, ccw
	switch {
	case inCCW && inCW:
		if cw < ccw {
			start, sweep = a2, cw
		}
	case inCW:
		start, sweep = a2, cw
	}

	return ArcGeom{
		Center:     center,
		Radius:     radius,
		StartAngle: start,
		EndAngle:   start + sweep,
	}
}

// normAngle wraps an angle into [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
