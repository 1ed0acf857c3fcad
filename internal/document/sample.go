package document

import (
	"math"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

// NewSampleDrawing builds a small demo drawing used by the wasm build and
// the scratchpad before any strokes are placed.
func NewSampleDrawing(drawingID string) *Drawing {
	d := NewEmptyDrawing(drawingID, "Sample")

	seed := []shape.Shape{
		shape.Line{A: geom.Pt(40, 40), B: geom.Pt(280, 40)},
		shape.Circle{Center: geom.Pt(160, 160), Radius: 60},
		shape.Arc{
			Center:     geom.Pt(160, 160),
			Radius:     90,
			StartAngle: 0,
			EndAngle:   math.Pi / 2,
		},
		shape.Polygon{
			Vertices: []geom.Point{
				geom.Pt(320, 120), geom.Pt(420, 120), geom.Pt(420, 220), geom.Pt(320, 220),
			},
			Closed: true,
		},
	}
	for _, s := range seed {
		// Seed shapes are static; insertion into a fresh drawing cannot fail.
		d.InsertShape(s, DefaultStyle())
	}
	return d
}
