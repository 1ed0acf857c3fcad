package document

import (
	"errors"
	"fmt"

	"github.com/draftroom/draftroom/backend-go/internal/shape"
	"github.com/draftroom/draftroom/backend-go/internal/typeid"
)

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrLayerNotFound  = errors.New("layer not found")
)

// Drawing is the persisted CAD document: layers and the geometric entities
// on them. Its JSON form is the snapshot the store versions.
type Drawing struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Version     int               `json:"version"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	LayerOrder  []string          `json:"layerOrder"`
	Layers      map[string]Layer  `json:"layers"`
	Entities    map[string]Entity `json:"entities"`
	ActiveLayer string            `json:"activeLayer"`
}

type Layer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Visible  bool     `json:"visible"`
	Locked   bool     `json:"locked"`
	Entities []string `json:"entities"`
}

// Entity is one finished shape placed on a layer.
type Entity struct {
	ID    string         `json:"id"`
	Layer string         `json:"layer"`
	Shape shape.Envelope `json:"shape"`
	Style Style          `json:"style"`
}

type Style struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Fill        string  `json:"fill"`
}

// DefaultStyle is applied to entities inserted without an explicit style.
func DefaultStyle() Style {
	return Style{Stroke: "#e8e8e8", StrokeWidth: 1.5, Fill: ""}
}

// NewEmptyDrawing creates a drawing with a single default layer.
func NewEmptyDrawing(drawingID, name string) *Drawing {
	layerID := typeid.NewLayerID()
	return &Drawing{
		ID:         drawingID,
		Name:       name,
		Version:    1,
		LayerOrder: []string{layerID},
		Layers: map[string]Layer{
			layerID: {
				ID:      layerID,
				Name:    "Layer 1",
				Visible: true,
			},
		},
		Entities:    map[string]Entity{},
		ActiveLayer: layerID,
	}
}

// InsertShape places a finished shape on the active layer and returns the
// new entity's id.
func (d *Drawing) InsertShape(s shape.Shape, style Style) (string, error) {
	env, err := shape.Wrap(s)
	if err != nil {
		return "", err
	}

	layer, ok := d.Layers[d.ActiveLayer]
	if !ok {
		return "", fmt.Errorf("active layer %q: %w", d.ActiveLayer, ErrLayerNotFound)
	}

	id := typeid.NewEntityID()
	d.Entities[id] = Entity{
		ID:    id,
		Layer: layer.ID,
		Shape: env,
		Style: style,
	}
	layer.Entities = append(layer.Entities, id)
	d.Layers[layer.ID] = layer
	return id, nil
}

// DeleteEntity removes an entity and its layer bookkeeping.
func (d *Drawing) DeleteEntity(id string) error {
	ent, ok := d.Entities[id]
	if !ok {
		return fmt.Errorf("delete %q: %w", id, ErrEntityNotFound)
	}

	if layer, ok := d.Layers[ent.Layer]; ok {
		kept := layer.Entities[:0]
		for _, eid := range layer.Entities {
			if eid != id {
				kept = append(kept, eid)
			}
		}
		layer.Entities = kept
		d.Layers[layer.ID] = layer
	}
	delete(d.Entities, id)
	return nil
}

// SetEntityStyle replaces an entity's style.
func (d *Drawing) SetEntityStyle(id string, style Style) error {
	ent, ok := d.Entities[id]
	if !ok {
		return fmt.Errorf("style %q: %w", id, ErrEntityNotFound)
	}
	ent.Style = style
	d.Entities[id] = ent
	return nil
}

// AddLayer appends a new layer and returns its id.
func (d *Drawing) AddLayer(name string) string {
	id := typeid.NewLayerID()
	d.Layers[id] = Layer{ID: id, Name: name, Visible: true}
	d.LayerOrder = append(d.LayerOrder, id)
	return id
}
