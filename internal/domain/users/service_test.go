package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"adoptme/internal/adapters/storage/documents"
	"adoptme/internal/adapters/storage/memory"
	"adoptme/internal/domain/users"
	"adoptme/internal/platform/ids"
	"adoptme/internal/platform/password"
)

func newService(t *testing.T) (*users.Service, *password.Hasher) {
	t.Helper()
	h := password.NewHasher(bcrypt.MinCost)
	return users.NewService(documents.NewUsersRepo(memory.New()), h), h
}

func TestCreate(t *testing.T) {
	svc, h := newService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, users.CreateInput{
		FirstName: "  Juan ",
		LastName:  "Pérez",
		Email:     " Juan.Perez@Test.com ",
		Password:  "secret123",
	})
	require.NoError(t, err)

	assert.False(t, u.ID.IsZero())
	assert.Equal(t, "Juan", u.FirstName)
	assert.Equal(t, "juan.perez@test.com", u.Email)
	assert.Equal(t, users.RoleUser, u.Role)
	assert.Empty(t, u.Pets)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, h.Matches(u.PasswordHash, "secret123"))
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := map[string]users.CreateInput{
		"missing first name": {LastName: "P", Email: "a@test.com", Password: "secret123"},
		"bad email":          {FirstName: "A", LastName: "P", Email: "nope", Password: "secret123"},
		"short password":     {FirstName: "A", LastName: "P", Email: "a@test.com", Password: "123"},
		"bad role":           {FirstName: "A", LastName: "P", Email: "a@test.com", Password: "secret123", Role: "root"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, users.ErrInvalidInput)
		})
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := users.CreateInput{FirstName: "A", LastName: "B", Email: "dup@test.com", Password: "secret123"}
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@test.com"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, users.ErrEmailTaken)
}

func TestUpdate(t *testing.T) {
	svc, h := newService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, users.CreateInput{FirstName: "A", LastName: "B", Email: "a@test.com", Password: "secret123"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, users.CreateInput{FirstName: "C", LastName: "D", Email: "c@test.com", Password: "secret123"})
	require.NoError(t, err)

	name := "Ana"
	role := users.RoleAdmin
	pw := "newsecret"
	got, err := svc.Update(ctx, u.ID, users.UpdateInput{FirstName: &name, Role: &role, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "B", got.LastName)
	assert.Equal(t, users.RoleAdmin, got.Role)
	assert.True(t, h.Matches(got.PasswordHash, "newsecret"))

	taken := "c@test.com"
	_, err = svc.Update(ctx, u.ID, users.UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	// el propio email no choca consigo mismo
	same := "C@test.com"
	_, err = svc.Update(ctx, other.ID, users.UpdateInput{Email: &same})
	assert.NoError(t, err)

	bad := users.Role("root")
	_, err = svc.Update(ctx, u.ID, users.UpdateInput{Role: &bad})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	_, err = svc.Update(ctx, ids.New(), users.UpdateInput{FirstName: &name})
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestInsert_PreHashed(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Insert(ctx, users.User{
		FirstName:    "Mock",
		LastName:     "User",
		Email:        "Mock@Test.com",
		PasswordHash: "$2a$04$precomputed",
		Role:         users.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "mock@test.com", u.Email)
	assert.Equal(t, "$2a$04$precomputed", u.PasswordHash)
	assert.NotNil(t, u.Pets)

	_, err = svc.Insert(ctx, users.User{Email: "x@test.com"})
	assert.ErrorIs(t, err, users.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, users.CreateInput{FirstName: "A", LastName: "B", Email: "a@test.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), users.ErrNotFound)
}

func TestDelete_WithPetsRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, users.CreateInput{FirstName: "A", LastName: "B", Email: "a@test.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.AppendPet(ctx, u.ID, users.PetRef{ID: ids.New(), Name: "Luna", Specie: "cat"}))

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), users.ErrHasPets)

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pets, 1)
}
