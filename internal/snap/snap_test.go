package snap

import (
	"testing"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

func TestNopResolve(t *testing.T) {
	p := geom.Pt(3.7, -1.2)
	if got := (Nop{}).Resolve(p, nil); got != p {
		t.Errorf("got %v, expected %v unchanged", got, p)
	}
}

func TestGridResolve(t *testing.T) {
	g := Grid{Spacing: 5}
	cases := []struct {
		in   geom.Point
		want geom.Point
	}{
		{geom.Pt(3.7, 11.2), geom.Pt(5, 10)},
		{geom.Pt(-3.7, -11.2), geom.Pt(-5, -10)},
		{geom.Pt(0, 0), geom.Pt(0, 0)},
		{geom.Pt(7.5, 2.4), geom.Pt(10, 0)},
	}
	for _, tc := range cases {
		if got := g.Resolve(tc.in, nil); !got.Near(tc.want, 1e-12) {
			t.Errorf("Resolve(%v) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestGridZeroSpacingDisabled(t *testing.T) {
	p := geom.Pt(3.7, -1.2)
	if got := (Grid{}).Resolve(p, nil); got != p {
		t.Errorf("got %v, expected %v unchanged", got, p)
	}
}
