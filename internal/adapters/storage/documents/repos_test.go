package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/adapters/storage/documents"
	"adoptme/internal/adapters/storage/memory"
	"adoptme/internal/domain/adoptions"
	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

func TestUsersRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	repo := documents.NewUsersRepo(st)

	u, err := repo.Create(ctx, users.User{
		FirstName:    "Juan",
		LastName:     "Pérez",
		Email:        "juan.perez@test.com",
		PasswordHash: "$2a$10$hash",
		Role:         users.RoleUser,
	})
	require.NoError(t, err)
	require.False(t, u.ID.IsZero())

	bd := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	petID := ids.New()
	require.NoError(t, repo.AppendPet(ctx, u.ID, users.PetRef{ID: petID, Name: "Firulais", Specie: "dog", BirthDate: &bd}))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.FirstName)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	require.Len(t, got.Pets, 1)
	assert.Equal(t, petID, got.Pets[0].ID)
	assert.Equal(t, bd, *got.Pets[0].BirthDate)

	// Update no toca pets
	got.FirstName = "Juancho"
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Juancho", updated.FirstName)
	assert.Len(t, updated.Pets, 1)

	_, err = repo.Create(ctx, users.User{Email: "juan.perez@test.com", PasswordHash: "x", Role: users.RoleUser})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	_, err = repo.GetByID(ctx, ids.New())
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, repo.AppendPet(ctx, ids.New(), users.PetRef{}), users.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), users.ErrNotFound)
}

func TestPetsRepo_MarkAdopted(t *testing.T) {
	ctx := context.Background()
	repo := documents.NewPetsRepo(memory.New())

	p, err := repo.Create(ctx, pets.Pet{Name: "Firulais", Specie: "dog", Image: "firulais.jpg"})
	require.NoError(t, err)

	free, err := repo.List(ctx, pets.ListFilter{Adopted: ptr(false)})
	require.NoError(t, err)
	assert.Len(t, free, 1)

	owner := ids.New()
	adopted, err := repo.MarkAdopted(ctx, p.ID, owner)
	require.NoError(t, err)
	assert.True(t, adopted.Adopted)
	require.NotNil(t, adopted.Owner)
	assert.Equal(t, owner, *adopted.Owner)

	_, err = repo.MarkAdopted(ctx, p.ID, ids.New())
	assert.ErrorIs(t, err, pets.ErrAlreadyAdopted)

	_, err = repo.MarkAdopted(ctx, ids.New(), owner)
	assert.ErrorIs(t, err, pets.ErrNotFound)

	owned, err := repo.List(ctx, pets.ListFilter{Owner: &owner})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, p.ID, owned[0].ID)

	// Update de perfil conserva adopted/owner y permite limpiar birthDate
	bd := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	adopted.BirthDate = &bd
	adopted.Name = "Firu"
	got, err := repo.Update(ctx, adopted)
	require.NoError(t, err)
	assert.Equal(t, "Firu", got.Name)
	assert.True(t, got.Adopted)
	assert.Equal(t, bd, *got.BirthDate)

	got.BirthDate = nil
	got, err = repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)
}

func TestAdoptionsRepo(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	repo := documents.NewAdoptionsRepo(st)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	owner := ids.New()
	a, err := repo.Create(ctx, adoptions.Adoption{Owner: owner, Pet: ids.New(), CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, adoptions.Adoption{Owner: ids.New(), Pet: ids.New(), CreatedAt: time.Now()})
	require.NoError(t, err)

	// registro insertado directo en el store, sin createdAt
	_, err = st.Create(ctx, store.Adoptions, store.Document{"owner": owner, "pet": ids.New()})
	require.NoError(t, err)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Owner, got.Owner)
	assert.Equal(t, a.Pet, got.Pet)

	_, err = repo.GetByID(ctx, ids.New())
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
