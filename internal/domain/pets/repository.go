package pets

import (
	"context"

	"adoptme/internal/platform/ids"
)

// ListFilter: campos nil = sin filtrar.
type ListFilter struct {
	Adopted *bool
	Owner   *ids.ID
}

type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id ids.ID) (Pet, error)
	List(ctx context.Context, f ListFilter) ([]Pet, error)
	// Update persiste el perfil (name, specie, birthDate, image). Nunca toca adopted/owner.
	Update(ctx context.Context, p Pet) (Pet, error)
	// MarkAdopted hace el compare-and-swap adopted:false -> true + owner.
	// Devuelve ErrAlreadyAdopted si la mascota ya estaba adoptada.
	MarkAdopted(ctx context.Context, id, owner ids.ID) (Pet, error)
	Delete(ctx context.Context, id ids.ID) error
}
