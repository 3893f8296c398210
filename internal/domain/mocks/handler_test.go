package mocks_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/domain/mocks"
)

type generated struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Payload json.RawMessage `json:"payload"`
	Count   *int            `json:"count"`
}

func doReq(t *testing.T, h http.Handler, method, path, body string) (int, generated) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out generated
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	mocks.RegisterRoutes(r, newEnv(t).svc)
	return r
}

func TestMockingUsersHandler(t *testing.T) {
	h := newHandler(t)

	code, body := doReq(t, h, http.MethodGet, "/mocks/mockingusers", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body.Status)
	require.NotNil(t, body.Count)
	assert.Equal(t, 50, *body.Count)

	var payload []map[string]any
	require.NoError(t, json.Unmarshal(body.Payload, &payload))
	require.Len(t, payload, 50)
	assert.NotContains(t, payload[0], "password")
	assert.NotContains(t, payload[0], "_id")
}

func TestMockingPetsHandler_Count(t *testing.T) {
	h := newHandler(t)

	cases := []struct {
		path string
		want int
	}{
		{"/mocks/mockingpets", 10},
		{"/mocks/mockingpets/3", 3},
		{"/mocks/mockingpets/abc", 10},
		{"/mocks/mockingpets/0", 10},
		{"/mocks/mockingpets/-4", 10},
		{"/mocks/mockingpets/100", 100},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			code, body := doReq(t, h, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusOK, code)
			require.NotNil(t, body.Count)
			assert.Equal(t, tc.want, *body.Count)
		})
	}

	code, body := doReq(t, h, http.MethodGet, "/mocks/mockingpets/101", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Cannot generate more than 100 pets at once", body.Error)
}

func TestGenerateDataHandler(t *testing.T) {
	h := newHandler(t)

	code, body := doReq(t, h, http.MethodPost, "/mocks/generateData", `{"users":2,"pets":3}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", body.Status)
	assert.Nil(t, body.Count)

	var payload struct {
		Users struct {
			Requested int              `json:"requested"`
			Created   int              `json:"created"`
			Data      []map[string]any `json:"data"`
		} `json:"users"`
		Pets struct {
			Requested int              `json:"requested"`
			Created   int              `json:"created"`
			Data      []map[string]any `json:"data"`
		} `json:"pets"`
	}
	require.NoError(t, json.Unmarshal(body.Payload, &payload))
	assert.Equal(t, 2, payload.Users.Requested)
	assert.Equal(t, 3, payload.Pets.Requested)
	assert.Equal(t, 3, payload.Pets.Created)
	assert.Len(t, payload.Pets.Data, 3)
	assert.Contains(t, payload.Pets.Data[0], "_id")
}

func TestGenerateDataHandler_Validation(t *testing.T) {
	h := newHandler(t)

	bad := []string{
		`{"users":-1}`,
		`{"pets":1.5}`,
		`{"users":"3"}`,
		`{"users":null}`,
		`{"users":1001}`,
		`{"pets":1e30}`,
		`not json`,
	}
	for _, b := range bad {
		t.Run(b, func(t *testing.T) {
			code, body := doReq(t, h, http.MethodPost, "/mocks/generateData", b)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "error", body.Status)
			assert.NotEmpty(t, body.Error)
		})
	}

	code, _ := doReq(t, h, http.MethodPost, "/mocks/generateData", "")
	assert.Equal(t, http.StatusCreated, code)
}

func TestGenerateDataHandler_IntegralNumbers(t *testing.T) {
	h := newHandler(t)

	code, body := doReq(t, h, http.MethodPost, "/mocks/generateData", `{"users":1e1,"pets":2.0}`)
	require.Equal(t, http.StatusCreated, code)

	var payload struct {
		Users struct {
			Requested int `json:"requested"`
		} `json:"users"`
		Pets struct {
			Requested int `json:"requested"`
		} `json:"pets"`
	}
	require.NoError(t, json.Unmarshal(body.Payload, &payload))
	assert.Equal(t, 10, payload.Users.Requested)
	assert.Equal(t, 2, payload.Pets.Requested)
}
