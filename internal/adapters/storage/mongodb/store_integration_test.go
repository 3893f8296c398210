//go:build integration
// +build integration

package mongodb_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"adoptme/internal/adapters/storage/mongodb"
	"adoptme/internal/ports/store"
	"adoptme/internal/ports/store/storetest"
)

func TestMongoStoreConformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	var n atomic.Int32
	storetest.Run(t, func(t *testing.T) store.Store {
		// una base por subtest para empezar vacío
		s, err := mongodb.Open(ctx, uri, fmt.Sprintf("adoptme_test_%d", n.Add(1)))
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.Drop(context.Background())
			_ = s.Close(context.Background())
		})
		return s
	})
}
