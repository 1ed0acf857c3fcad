// Package snap provides the trivial snap resolvers the server wires behind
// the construction core's resolver interface. Snapping against existing
// geometry lives in the frontend.
package snap

import (
	"math"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
)

// Nop returns every point unchanged.
type Nop struct{}

func (Nop) Resolve(raw geom.Point, _ []geom.Point) geom.Point {
	return raw
}

// Grid pulls points onto a square grid. A zero or negative spacing disables
// snapping.
type Grid struct {
	Spacing float64
}

func (g Grid) Resolve(raw geom.Point, _ []geom.Point) geom.Point {
	if g.Spacing <= 0 {
		return raw
	}
	return geom.Pt(
		math.Round(raw.X/g.Spacing)*g.Spacing,
		math.Round(raw.Y/g.Spacing)*g.Spacing,
	)
}
