// Package storetest contiene la suite de conformidad que todo driver de
// store.Store debe pasar (memory en unit tests, mongo/postgres en integración).
package storetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

// Factory devuelve un store vacío. La suite no llama Close.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndFind", func(t *testing.T) { testCreateAndFind(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("FindAllFilter", func(t *testing.T) { testFindAllFilter(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateIf", func(t *testing.T) { testUpdateIf(t, newStore(t)) })
	t.Run("UpdateIfConcurrent", func(t *testing.T) { testUpdateIfConcurrent(t, newStore(t)) })
	t.Run("Push", func(t *testing.T) { testPush(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("UniqueEmail", func(t *testing.T) { testUniqueEmail(t, newStore(t)) })
}

func testCreateAndFind(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := ids.New()
	birth := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	id, err := s.Create(ctx, store.Pets, store.Document{
		"name":      "Firulais",
		"specie":    "dog",
		"birthDate": birth,
		"adopted":   false,
		"owner":     owner,
	})
	require.NoError(t, err)
	require.False(t, id.IsZero())

	got, err := s.FindByID(ctx, store.Pets, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, "Firulais", got.String("name"))
	assert.Equal(t, "dog", got.String("specie"))
	assert.False(t, got.Bool("adopted"))
	if assert.NotNil(t, got.Time("birthDate")) {
		assert.True(t, birth.Equal(*got.Time("birthDate")))
	}
	ref, ok := got.Ref("owner")
	assert.True(t, ok)
	assert.Equal(t, owner, ref)

	// id explícito
	fixed := ids.New()
	id2, err := s.Create(ctx, store.Pets, store.Document{store.IDField: fixed, "name": "Miau"})
	require.NoError(t, err)
	assert.Equal(t, fixed, id2)
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	missing := ids.New()

	_, err := s.FindByID(ctx, store.Adoptions, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Update(ctx, store.Adoptions, missing, store.Patch{"x": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.UpdateIf(ctx, store.Adoptions, missing, store.Filter{"x": 1}, store.Patch{"x": 2})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Push(ctx, store.Adoptions, missing, "pets", store.Document{"name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, store.Adoptions, missing), store.ErrNotFound)

	_, err = s.FindAll(ctx, store.Collection("nope"), nil)
	assert.ErrorIs(t, err, store.ErrUnknownCollection)
}

func testFindAllFilter(t *testing.T, s store.Store) {
	ctx := context.Background()

	all, err := s.FindAll(ctx, store.Pets, nil)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	owner := ids.New()
	names := []string{"Max", "Luna", "Rocky"}
	for i, n := range names {
		doc := store.Document{"name": n, "adopted": i == 1}
		if i == 1 {
			doc["owner"] = owner
		}
		_, err := s.Create(ctx, store.Pets, doc)
		require.NoError(t, err)
	}

	all, err = s.FindAll(ctx, store.Pets, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].String("name"), "store-native order is insertion order")
	}

	free, err := s.FindAll(ctx, store.Pets, store.Filter{"adopted": false})
	require.NoError(t, err)
	assert.Len(t, free, 2)

	owned, err := s.FindAll(ctx, store.Pets, store.Filter{"owner": owner})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Luna", owned[0].String("name"))
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()

	id, err := s.Create(ctx, store.Pets, store.Document{"name": "Max", "specie": "dog"})
	require.NoError(t, err)

	got, err := s.Update(ctx, store.Pets, id, store.Patch{"name": "Maximus", "image": "max.jpg", store.IDField: ids.New()})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID(), "patch must not change _id")
	assert.Equal(t, "Maximus", got.String("name"))
	assert.Equal(t, "dog", got.String("specie"))
	assert.Equal(t, "max.jpg", got.String("image"))

	got, err = s.Update(ctx, store.Pets, id, store.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Maximus", got.String("name"))
}

func testUpdateIf(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := ids.New()

	id, err := s.Create(ctx, store.Pets, store.Document{"name": "Max", "adopted": false})
	require.NoError(t, err)

	got, err := s.UpdateIf(ctx, store.Pets, id, store.Filter{"adopted": false}, store.Patch{"adopted": true, "owner": owner})
	require.NoError(t, err)
	assert.True(t, got.Bool("adopted"))
	ref, _ := got.Ref("owner")
	assert.Equal(t, owner, ref)

	_, err = s.UpdateIf(ctx, store.Pets, id, store.Filter{"adopted": false}, store.Patch{"adopted": true, "owner": ids.New()})
	assert.ErrorIs(t, err, store.ErrConflict)

	after, err := s.FindByID(ctx, store.Pets, id)
	require.NoError(t, err)
	ref, _ = after.Ref("owner")
	assert.Equal(t, owner, ref, "failed condition must not mutate")
}

func testUpdateIfConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()

	id, err := s.Create(ctx, store.Pets, store.Document{"name": "Max", "adopted": false})
	require.NoError(t, err)

	const workers = 16
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateIf(ctx, store.Pets, id, store.Filter{"adopted": false}, store.Patch{"adopted": true, "owner": ids.New()})
			if err == nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func testPush(t *testing.T, s store.Store) {
	ctx := context.Background()

	id, err := s.Create(ctx, store.Users, store.Document{"email": "push@test.com", "pets": []any{}})
	require.NoError(t, err)

	petA, petB := ids.New(), ids.New()
	_, err = s.Push(ctx, store.Users, id, "pets", store.Document{store.IDField: petA, "name": "A"})
	require.NoError(t, err)
	got, err := s.Push(ctx, store.Users, id, "pets", store.Document{store.IDField: petB, "name": "B"})
	require.NoError(t, err)

	pets := got.Documents("pets")
	require.Len(t, pets, 2)
	assert.Equal(t, petA, pets[0].ID())
	assert.Equal(t, petB, pets[1].ID())

	// campo ausente: se crea el array
	id2, err := s.Create(ctx, store.Users, store.Document{"email": "nopets@test.com"})
	require.NoError(t, err)
	got, err = s.Push(ctx, store.Users, id2, "pets", store.Document{"name": "C"})
	require.NoError(t, err)
	assert.Len(t, got.Documents("pets"), 1)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()

	id, err := s.Create(ctx, store.Adoptions, store.Document{"owner": ids.New(), "pet": ids.New()})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, store.Adoptions, id))
	_, err = s.FindByID(ctx, store.Adoptions, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.FindAll(ctx, store.Adoptions, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testUniqueEmail(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Create(ctx, store.Users, store.Document{"email": "juan.perez@test.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, store.Users, store.Document{"email": "juan.perez@test.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	other, err := s.Create(ctx, store.Users, store.Document{"email": "ana.garcia@test.com"})
	require.NoError(t, err)

	_, err = s.Update(ctx, store.Users, other, store.Patch{"email": "juan.perez@test.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// el mismo documento puede reescribir su propio valor
	_, err = s.Update(ctx, store.Users, other, store.Patch{"email": "ana.garcia@test.com"})
	assert.NoError(t, err)
}
