package document

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/shape"
)

func TestInsertShape(t *testing.T) {
	d := NewEmptyDrawing("drw_test", "Test")

	id, err := d.InsertShape(shape.Line{A: geom.Pt(0, 0), B: geom.Pt(5, 5)}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	ent, ok := d.Entities[id]
	if !ok {
		t.Fatalf("entity %q not in drawing", id)
	}
	if ent.Layer != d.ActiveLayer {
		t.Errorf("entity on layer %q, expected active layer %q", ent.Layer, d.ActiveLayer)
	}

	layer := d.Layers[d.ActiveLayer]
	if len(layer.Entities) != 1 || layer.Entities[0] != id {
		t.Errorf("layer entity list %v, expected [%s]", layer.Entities, id)
	}

	s, err := ent.Shape.Decode()
	if err != nil {
		t.Fatal(err)
	}
	line, ok := s.(shape.Line)
	if !ok {
		t.Fatalf("decoded %T, expected shape.Line", s)
	}
	if line.B != geom.Pt(5, 5) {
		t.Errorf("decoded endpoint %v", line.B)
	}
}

func TestDeleteEntity(t *testing.T) {
	d := NewEmptyDrawing("drw_test", "Test")
	keep, err := d.InsertShape(shape.Circle{Center: geom.Pt(0, 0), Radius: 1}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	gone, err := d.InsertShape(shape.Circle{Center: geom.Pt(2, 0), Radius: 1}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	if err := d.DeleteEntity(gone); err != nil {
		t.Fatal(err)
	}

	if _, ok := d.Entities[gone]; ok {
		t.Errorf("deleted entity still present")
	}
	layer := d.Layers[d.ActiveLayer]
	if len(layer.Entities) != 1 || layer.Entities[0] != keep {
		t.Errorf("layer entity list %v after delete, expected [%s]", layer.Entities, keep)
	}

	err = d.DeleteEntity(gone)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("second delete: got %v, expected ErrEntityNotFound", err)
	}
}

func TestSetEntityStyle(t *testing.T) {
	d := NewEmptyDrawing("drw_test", "Test")
	id, err := d.InsertShape(shape.Line{A: geom.Pt(0, 0), B: geom.Pt(1, 0)}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	want := Style{Stroke: "#ff0000", StrokeWidth: 3, Fill: "#222222"}
	if err := d.SetEntityStyle(id, want); err != nil {
		t.Fatal(err)
	}
	if got := d.Entities[id].Style; got != want {
		t.Errorf("got style %+v, expected %+v", got, want)
	}

	err = d.SetEntityStyle("ent_missing", want)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("got %v, expected ErrEntityNotFound", err)
	}
}

func TestAddLayer(t *testing.T) {
	d := NewEmptyDrawing("drw_test", "Test")
	id := d.AddLayer("Dimensions")

	layer, ok := d.Layers[id]
	if !ok {
		t.Fatalf("layer %q not in drawing", id)
	}
	if layer.Name != "Dimensions" || !layer.Visible {
		t.Errorf("unexpected layer %+v", layer)
	}
	if d.LayerOrder[len(d.LayerOrder)-1] != id {
		t.Errorf("new layer not last in order %v", d.LayerOrder)
	}
	if d.ActiveLayer == id {
		t.Errorf("adding a layer must not steal the active layer")
	}
}

func TestDrawingJSONRoundTrip(t *testing.T) {
	d := NewEmptyDrawing("drw_test", "Round Trip")
	if _, err := d.InsertShape(shape.Arc{Center: geom.Pt(1, 1), Radius: 2, StartAngle: 0, EndAngle: 1.5}, DefaultStyle()); err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var back Drawing
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}

	if back.ID != d.ID || len(back.Entities) != 1 || len(back.Layers) != 1 {
		t.Errorf("round trip lost structure: %+v", back)
	}
	for id, ent := range back.Entities {
		s, err := ent.Shape.Decode()
		if err != nil {
			t.Fatalf("decode %s: %v", id, err)
		}
		if _, ok := s.(shape.Arc); !ok {
			t.Errorf("decoded %T, expected shape.Arc", s)
		}
	}
}
