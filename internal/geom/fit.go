package geom

// PathPoint is one anchor of a fitted smooth path together with its two
// cubic-bezier control points. Endpoint anchors of an open path carry only
// one real control; the missing one coincides with the anchor.
type PathPoint struct {
	Anchor        Point
	ControlBefore Point
	ControlAfter  Point
}

const (
	interiorControlRatio = 0.4
	endpointControlRatio = 0.5
)

// FitSmoothPath turns a poly-line into cubic-bezier anchors with tangent-
// derived controls. Each interior anchor's controls lie along the direction
// from its previous to its next neighbor, scaled by the distance to the
// respective neighbor. A path whose first and last points coincide (within
// Epsilon) is treated as closed and uses wrap-around neighbors everywhere;
// the second return reports that. Fewer than 2 distinct points yield nil.
func FitSmoothPath(points []Point) ([]PathPoint, bool) {
	pts := dedupe(points)

	closed := false
	if len(pts) >= 4 && pts[0].Near(pts[len(pts)-1], Epsilon) {
		closed = true
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return nil, false
	}

	out := make([]PathPoint, len(pts))
	for i, p := range pts {
		switch {
		case closed:
			prev := pts[(i-1+len(pts))%len(pts)]
			next := pts[(i+1)%len(pts)]
			out[i] = smoothAnchor(p, prev, next, interiorControlRatio)
		case i == 0:
			dir := pts[1].Sub(p).Normalize()
			out[i] = PathPoint{
				Anchor:        p,
				ControlBefore: p,
				ControlAfter:  p.Translate(dir.Mul(p.Distance(pts[1]) * endpointControlRatio)),
			}
		case i == len(pts)-1:
			dir := p.Sub(pts[i-1]).Normalize()
			out[i] = PathPoint{
				Anchor:        p,
				ControlBefore: p.Translate(dir.Mul(-p.Distance(pts[i-1]) * endpointControlRatio)),
				ControlAfter:  p,
			}
		default:
			out[i] = smoothAnchor(p, pts[i-1], pts[i+1], interiorControlRatio)
		}
	}
	return out, closed
}

func smoothAnchor(p, prev, next Point, ratio float64) PathPoint {
	dir := next.Sub(prev)
	if dir.Hypot() < Epsilon {
		// prev and next coincide; there is no tangent direction.
		return PathPoint{Anchor: p, ControlBefore: p, ControlAfter: p}
	}
	dir = dir.Normalize()
	return PathPoint{
		Anchor:        p,
		ControlBefore: p.Translate(dir.Mul(-p.Distance(prev) * ratio)),
		ControlAfter:  p.Translate(dir.Mul(p.Distance(next) * ratio)),
	}
}

// dedupe drops consecutive points that coincide within Epsilon.
func dedupe(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && p.Near(out[len(out)-1], Epsilon) {
			continue
		}
		out = append(out, p)
	}
	return out
}
