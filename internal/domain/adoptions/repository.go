package adoptions

import (
	"context"

	"adoptme/internal/platform/ids"
)

// Repository no expone update ni delete: los registros son inmutables.
type Repository interface {
	Create(ctx context.Context, a Adoption) (Adoption, error)
	GetByID(ctx context.Context, id ids.ID) (Adoption, error)
	List(ctx context.Context) ([]Adoption, error)
	ListByOwner(ctx context.Context, owner ids.ID) ([]Adoption, error)
}
