package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/adapters/storage/memory"
	"adoptme/internal/ports/store"
	"adoptme/internal/ports/store/storetest"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, err := s.Create(ctx, store.Pets, store.Document{"name": "Max"})
	require.NoError(t, err)

	got, err := s.FindByID(ctx, store.Pets, id)
	require.NoError(t, err)
	got["name"] = "mutated"

	again, err := s.FindByID(ctx, store.Pets, id)
	require.NoError(t, err)
	assert.Equal(t, "Max", again.String("name"))
}
