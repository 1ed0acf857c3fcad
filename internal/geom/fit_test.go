package geom

import (
	"math"
	"testing"
)

func TestFitSmoothPathOpen(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	anchors, closed := FitSmoothPath(pts)
	if closed {
		t.Fatal("open path reported as closed")
	}
	if len(anchors) != 3 {
		t.Fatalf("got %d anchors, expected 3", len(anchors))
	}

	// First anchor: one control, half way toward the next point.
	diff(t, Pt(0, 0), anchors[0].Anchor, pointComparer)
	diff(t, Pt(0, 0), anchors[0].ControlBefore, pointComparer)
	diff(t, Pt(5, 0), anchors[0].ControlAfter, pointComparer)

	// Interior anchor: controls along the prev→next direction, scaled by
	// 0.4 of the distance to each neighbor.
	dir := pts[2].Sub(pts[0]).Normalize()
	wantBefore := pts[1].Translate(dir.Mul(-10 * 0.4))
	wantAfter := pts[1].Translate(dir.Mul(10 * 0.4))
	diff(t, wantBefore, anchors[1].ControlBefore, pointComparer)
	diff(t, wantAfter, anchors[1].ControlAfter, pointComparer)

	// Last anchor: one control, half way back toward the previous point.
	diff(t, Pt(10, 5), anchors[2].ControlBefore, pointComparer)
	diff(t, Pt(10, 10), anchors[2].ControlAfter, pointComparer)
}

func TestFitSmoothPathClosed(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(5, 8), Pt(0, 0)}
	anchors, closed := FitSmoothPath(pts)
	if !closed {
		t.Fatal("closed trace not detected")
	}
	if len(anchors) != 3 {
		t.Fatalf("got %d anchors, expected 3 (duplicate endpoint dropped)", len(anchors))
	}

	// Every anchor gets wrap-around neighbors: the first anchor's controls
	// follow the last→second direction at the interior ratio.
	dir := pts[1].Sub(pts[2]).Normalize()
	wantAfter := pts[0].Translate(dir.Mul(pts[0].Distance(pts[1]) * 0.4))
	diff(t, wantAfter, anchors[0].ControlAfter, pointComparer)
}

func TestFitSmoothPathDegenerate(t *testing.T) {
	cases := [][]Point{
		nil,
		{Pt(1, 1)},
		{Pt(1, 1), Pt(1, 1), Pt(1, 1)},
	}
	for _, pts := range cases {
		if anchors, _ := FitSmoothPath(pts); anchors != nil {
			t.Errorf("FitSmoothPath(%v): got %d anchors, expected none", pts, len(anchors))
		}
	}
}

func TestFitSmoothPathDropsDuplicates(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(0, 0), Pt(10, 0), Pt(10, 0), Pt(10, 10)}
	anchors, _ := FitSmoothPath(pts)
	if len(anchors) != 3 {
		t.Fatalf("got %d anchors, expected 3 after deduplication", len(anchors))
	}
}

func TestFitSmoothPathTwoPoints(t *testing.T) {
	anchors, closed := FitSmoothPath([]Point{Pt(0, 0), Pt(4, 0)})
	if closed || len(anchors) != 2 {
		t.Fatalf("got %d anchors (closed=%v), expected 2 open", len(anchors), closed)
	}
	diff(t, Pt(2, 0), anchors[0].ControlAfter, pointComparer)
	diff(t, Pt(2, 0), anchors[1].ControlBefore, pointComparer)
}

func TestFitSmoothPathControlDistances(t *testing.T) {
	// Interior control offsets scale with the distance to the matching
	// neighbor even when the neighbors are asymmetric.
	pts := []Point{Pt(0, 0), Pt(1, 0), Pt(11, 0), Pt(11, 20)}
	anchors, _ := FitSmoothPath(pts)

	a := anchors[1]
	if d := a.Anchor.Distance(a.ControlBefore); math.Abs(d-1*0.4) > 1e-9 {
		t.Errorf("got control-before offset %v, expected 0.4", d)
	}
	if d := a.Anchor.Distance(a.ControlAfter); math.Abs(d-10*0.4) > 1e-9 {
		t.Errorf("got control-after offset %v, expected 4", d)
	}
}
