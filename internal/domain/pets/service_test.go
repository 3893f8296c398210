package pets_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/adapters/storage/documents"
	"adoptme/internal/adapters/storage/memory"
	"adoptme/internal/domain/pets"
	"adoptme/internal/platform/ids"
)

func newService() *pets.Service {
	return pets.NewService(documents.NewPetsRepo(memory.New()))
}

func TestCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	bd := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, pets.CreateInput{Name: " Firulais ", Specie: "Dog", BirthDate: &bd, Image: "a.jpg"})
	require.NoError(t, err)

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, "Firulais", p.Name)
	assert.Equal(t, "dog", p.Specie)
	assert.False(t, p.Adopted)
	assert.Nil(t, p.Owner)
	assert.Equal(t, bd, *p.BirthDate)
}

func TestCreate_Validation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, pets.CreateInput{Specie: "dog"})
	assert.ErrorIs(t, err, pets.ErrInvalidInput)

	_, err = svc.Create(ctx, pets.CreateInput{Name: "Firulais"})
	assert.ErrorIs(t, err, pets.ErrInvalidInput)

	future := time.Now().AddDate(1, 0, 0)
	_, err = svc.Create(ctx, pets.CreateInput{Name: "Firulais", Specie: "dog", BirthDate: &future})
	assert.ErrorIs(t, err, pets.ErrInvalidInput)
}

func TestInsert_AlwaysUnadopted(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	owner := ids.New()
	p, err := svc.Insert(ctx, pets.Pet{Name: "Max", Specie: "dog", Adopted: true, Owner: &owner})
	require.NoError(t, err)
	assert.False(t, p.Adopted)
	assert.Nil(t, p.Owner)
}

func TestUpdate_Partial(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	bd := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, pets.CreateInput{Name: "Firulais", Specie: "dog", BirthDate: &bd})
	require.NoError(t, err)

	name := "Firu"
	got, err := svc.Update(ctx, p.ID, pets.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Firu", got.Name)
	assert.Equal(t, "dog", got.Specie)
	require.NotNil(t, got.BirthDate)

	got, err = svc.Update(ctx, p.ID, pets.UpdateInput{BirthDate: pets.BirthDatePatch{Present: true}})
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)

	empty := "  "
	_, err = svc.Update(ctx, p.ID, pets.UpdateInput{Name: &empty})
	assert.ErrorIs(t, err, pets.ErrInvalidInput)

	_, err = svc.Update(ctx, ids.New(), pets.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestMarkAdopted_Once(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, pets.CreateInput{Name: "Luna", Specie: "cat"})
	require.NoError(t, err)

	owner := ids.New()
	got, err := svc.MarkAdopted(ctx, p.ID, owner)
	require.NoError(t, err)
	assert.True(t, got.Adopted)
	assert.Equal(t, owner, *got.Owner)

	_, err = svc.MarkAdopted(ctx, p.ID, ids.New())
	assert.ErrorIs(t, err, pets.ErrAlreadyAdopted)

	// update de perfil no libera la mascota
	name := "Lunita"
	got, err = svc.Update(ctx, p.ID, pets.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.True(t, got.Adopted)
	assert.Equal(t, owner, *got.Owner)

	adopted := true
	list, err := svc.List(ctx, pets.ListFilter{Adopted: &adopted})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, pets.CreateInput{Name: "Luna", Specie: "cat"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), pets.ErrNotFound)
}

func TestDelete_AdoptedRejected(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, pets.CreateInput{Name: "Luna", Specie: "cat"})
	require.NoError(t, err)
	_, err = svc.MarkAdopted(ctx, p.ID, ids.New())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), pets.ErrAdoptedPet)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Adopted)
}
