package mocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
	"adoptme/internal/platform/respond"
)

// RegisterRoutes monta los generadores. mw se aplica solo a este grupo
// (rate limit).
func RegisterRoutes(r chi.Router, svc *Service, mw ...func(http.Handler) http.Handler) {
	r.Route("/mocks", func(mr chi.Router) {
		mr.Use(mw...)

		mr.Get("/mockingusers", mockingUsersHandler(svc))
		mr.Get("/mockingpets", mockingPetsHandler(svc))
		mr.Get("/mockingpets/{count}", mockingPetsHandler(svc))
		mr.Post("/generateData", generateDataHandler(svc))
	})
}

type generateDataRequest struct {
	Users json.RawMessage `json:"users" swaggertype:"integer"`
	Pets  json.RawMessage `json:"pets" swaggertype:"integer"`
}

type userBatchResponse struct {
	Requested int              `json:"requested"`
	Created   int              `json:"created"`
	Data      []users.Response `json:"data"`
}

type petBatchResponse struct {
	Requested int             `json:"requested"`
	Created   int             `json:"created"`
	Data      []pets.Response `json:"data"`
}

type generateDataResponse struct {
	Users userBatchResponse `json:"users"`
	Pets  petBatchResponse  `json:"pets"`
}

// mockingUsersHandler
// @Summary      Generate mock users
// @Description  Returns 50 users with a hashed password. Nothing is stored.
// @Tags         mocks
// @Produce      json
// @Success      200  {object}  respond.GeneratedResponse
// @Failure      429  {object}  respond.ErrorResponse
// @Failure      500  {object}  respond.ErrorResponse
// @Router       /mocks/mockingusers [get]
func mockingUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		items, err := svc.MockUsers(DefaultUsers)
		if err != nil {
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error while generating mock users", err)
			return
		}

		out := make([]users.Response, 0, len(items))
		for _, u := range items {
			out = append(out, users.NewResponse(u))
		}
		respond.Generated(w, http.StatusOK, fmt.Sprintf("%d mock users generated", len(out)), out, len(out))
	}
}

// mockingPetsHandler: count ausente, no numérico o <= 0 usa 10.
// @Summary      Generate mock pets
// @Description  Returns count unadopted pets (default 10, max 100). Nothing is stored.
// @Tags         mocks
// @Produce      json
// @Param        count  path      int  false  "how many pets"
// @Success      200    {object}  respond.GeneratedResponse
// @Failure      400    {object}  respond.ErrorResponse
// @Failure      429    {object}  respond.ErrorResponse
// @Failure      500    {object}  respond.ErrorResponse
// @Router       /mocks/mockingpets/{count} [get]
func mockingPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := parseCount(chi.URLParam(r, "count"))
		if count > MaxPets {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("Cannot generate more than %d pets at once", MaxPets))
			return
		}

		items, err := svc.MockPets(count)
		if err != nil {
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error while generating mock pets", err)
			return
		}

		out := make([]pets.Response, 0, len(items))
		for _, p := range items {
			out = append(out, pets.NewResponse(p))
		}
		respond.Generated(w, http.StatusOK, fmt.Sprintf("%d mock pets generated", len(out)), out, len(out))
	}
}

// generateDataHandler
// @Summary      Generate and insert mock data
// @Description  Inserts up to 1000 users and 1000 pets. Failed inserts are skipped.
// @Tags         mocks
// @Accept       json
// @Produce      json
// @Param        body  body      generateDataRequest  false  "amounts per type"
// @Success      201   {object}  respond.GeneratedResponse
// @Failure      400   {object}  respond.ErrorResponse
// @Failure      429   {object}  respond.ErrorResponse
// @Failure      500   {object}  respond.ErrorResponse
// @Router       /mocks/generateData [post]
func generateDataHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateDataRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		nUsers, okU := parseAmount(req.Users)
		nPets, okP := parseAmount(req.Pets)
		if !okU || !okP || nUsers < 0 || nPets < 0 {
			respond.Error(w, http.StatusBadRequest, `"users" and "pets" must be non-negative integers`)
			return
		}
		if nUsers > MaxGenerate || nPets > MaxGenerate {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("Cannot generate more than %d records per type at once", MaxGenerate))
			return
		}

		res, err := svc.Generate(r.Context(), nUsers, nPets)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error while generating data", err)
			return
		}

		out := generateDataResponse{
			Users: userBatchResponse{Requested: res.Users.Requested, Created: res.Users.Created, Data: make([]users.Response, 0, len(res.Users.Data))},
			Pets:  petBatchResponse{Requested: res.Pets.Requested, Created: res.Pets.Created, Data: make([]pets.Response, 0, len(res.Pets.Data))},
		}
		for _, u := range res.Users.Data {
			out.Users.Data = append(out.Users.Data, users.NewResponse(u))
		}
		for _, p := range res.Pets.Data {
			out.Pets.Data = append(out.Pets.Data, pets.NewResponse(p))
		}
		respond.Generated(w, http.StatusCreated, "Data generated and inserted", out, -1)
	}
}

func parseCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultPets
	}
	return n
}

// parseAmount acepta números JSON con valor entero (2, 2.0, 1e3). Ausente
// vale 0; null, strings y fracciones no.
func parseAmount(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, true
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	// cualquier valor fuera de int32 ya excede MaxGenerate
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}
