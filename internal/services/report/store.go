package report

import (
	"context"
	"encoding/json"
	"fmt"

	"qcreports/internal/models"
)

// Patch is a partial record keyed by persisted field name (the JSON name of
// the model field). Store.Update leaves absent keys untouched and clears
// fields whose value is nil.
type Patch map[string]any

func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// PatchOf flattens a model into a Patch with every field present.
func PatchOf(v any) (Patch, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("patch of %T: %w", v, err)
	}
	var p Patch
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("patch of %T: %w", v, err)
	}
	return p, nil
}

// Store persists one report type. Implementations serialize conflicting
// writes; there is no version token, so concurrent edits are last-write-wins.
type Store[T any] interface {
	Create(ctx context.Context, p Patch) (*T, error)
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, p Patch) (*T, error)
	Delete(ctx context.Context, id string) error
}

type (
	FIStore = Store[models.FIReport]
	ISStore = Store[models.ISReport]
)
