package users

import (
	"context"

	"adoptme/internal/platform/ids"
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id ids.ID) (User, error)
	List(ctx context.Context) ([]User, error)
	// Update persiste nombre, email, password y rol. Pets solo cambia vía AppendPet.
	Update(ctx context.Context, u User) (User, error)
	// AppendPet agrega ref al final de Pets de forma atómica.
	AppendPet(ctx context.Context, id ids.ID, ref PetRef) error
	Delete(ctx context.Context, id ids.ID) error
}
