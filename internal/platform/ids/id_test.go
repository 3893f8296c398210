package ids_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"adoptme/internal/platform/ids"
)

func TestParse(t *testing.T) {
	id := ids.New()

	parsed, err := ids.Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "invalid-id", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "000000000000000000000000"} {
		_, err := ids.Parse(bad)
		assert.Truef(t, errors.Is(err, ids.ErrInvalid), "expected ErrInvalid for %q, got %v", bad, err)
	}
}

func TestJSON(t *testing.T) {
	id := ids.New()

	b, err := json.Marshal(map[string]ids.ID{"_id": id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+id.String()+`"}`, string(b))

	var out struct {
		ID ids.ID `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id, out.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"_id":"nope"}`), &out))
}

func TestBSONStoresObjectID(t *testing.T) {
	id := ids.New()

	raw, err := bson.Marshal(bson.M{"owner": id})
	require.NoError(t, err)

	val := bson.Raw(raw).Lookup("owner")
	assert.Equal(t, bson.TypeObjectID, val.Type)
	assert.Equal(t, id.ObjectID(), val.ObjectID())

	var out struct {
		Owner ids.ID `bson:"owner"`
	}
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, id, out.Owner)
}
