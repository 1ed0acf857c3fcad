// Package drawing provides CRUD over stored drawings and their snapshots.
package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/store"
	"github.com/draftroom/draftroom/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Drawing is the API view of a stored drawing.
type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func fromRecord(rec store.Drawing) Drawing {
	return Drawing{
		ID:        rec.ID,
		Name:      rec.Name,
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

// Create makes a drawing owned by ownerID and seeds its first snapshot with
// an empty document.
func (s *Service) Create(ctx context.Context, name, ownerID string) (Drawing, error) {
	id := typeid.NewDrawingID()
	rec, err := s.store.CreateDrawing(ctx, store.Drawing{
		ID:      id,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return Drawing{}, fmt.Errorf("create drawing: %w", err)
	}

	doc := document.NewEmptyDrawing(id, name)
	data, err := json.Marshal(doc)
	if err != nil {
		return Drawing{}, fmt.Errorf("marshal empty drawing: %w", err)
	}
	_, err = s.store.CreateSnapshot(ctx, store.Snapshot{
		ID:        typeid.NewSnapshotID(),
		DrawingID: id,
		Version:   1,
		Document:  data,
	})
	if err != nil {
		return Drawing{}, fmt.Errorf("seed snapshot: %w", err)
	}

	return fromRecord(rec), nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Drawing, error) {
	recs, err := s.store.ListDrawings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Drawing, len(recs))
	for i, rec := range recs {
		out[i] = fromRecord(rec)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, userID string) (Drawing, error) {
	rec, err := s.store.GetDrawing(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Drawing{}, ErrNotFound
		}
		return Drawing{}, err
	}
	if rec.OwnerID != userID {
		return Drawing{}, ErrForbidden
	}
	return fromRecord(rec), nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.store.DeleteDrawing(ctx, id)
}

// LatestDocument loads the most recent snapshot's document JSON.
func (s *Service) LatestDocument(ctx context.Context, id, userID string) ([]byte, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	snap, err := s.store.GetLatestSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap.Document, nil
}

// SaveDocument writes the next snapshot version for a drawing.
func (s *Service) SaveDocument(ctx context.Context, id string, doc []byte) error {
	version := int32(1)
	if snap, err := s.store.GetLatestSnapshot(ctx, id); err == nil {
		version = snap.Version + 1
	}

	_, err := s.store.CreateSnapshot(ctx, store.Snapshot{
		ID:        typeid.NewSnapshotID(),
		DrawingID: id,
		Version:   version,
		Document:  doc,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.store.TouchDrawing(ctx, id); err != nil {
		return err
	}
	return nil
}
