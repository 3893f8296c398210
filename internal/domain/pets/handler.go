package pets

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adoptme/internal/platform/ids"
	"adoptme/internal/platform/respond"
)

const msgNotFound = "Pet not found"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))

		pr.Get("/{pid}", getPetHandler(svc))
		pr.Put("/{pid}", updatePetHandler(svc))
		pr.Delete("/{pid}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name      string `json:"name"`
	Specie    string `json:"specie"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD o RFC3339, opcional
	Image     string `json:"image"`
}

type updatePetRequest struct {
	Name   *string `json:"name"`
	Specie *string `json:"specie"`
	Image  *string `json:"image"`
	// birthDate se procesa aparte para distinguir null de ausente
	BirthDate json.RawMessage `json:"birthDate"`
}

// Response es la representación pública de una mascota.
type Response struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"`
	Specie    string     `json:"specie"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Adopted   bool       `json:"adopted"`
	Owner     string     `json:"owner,omitempty"`
	Image     string     `json:"image,omitempty"`
}

func NewResponse(p Pet) Response {
	out := Response{
		ID:        p.ID.String(),
		Name:      p.Name,
		Specie:    p.Specie,
		BirthDate: p.BirthDate,
		Adopted:   p.Adopted,
		Image:     p.Image,
	}
	if p.Owner != nil {
		out.Owner = p.Owner.String()
	}
	return out
}

// listPetsHandler
// @Summary      List pets
// @Tags         pets
// @Produce      json
// @Param        adopted  query     bool    false  "filter by adopted flag"
// @Param        owner    query     string  false  "filter by owner user id"
// @Success      200      {object}  respond.SuccessResponse
// @Failure      400      {object}  respond.ErrorResponse
// @Router       /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f ListFilter

		if v := strings.TrimSpace(r.URL.Query().Get("adopted")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "adopted must be true or false")
				return
			}
			f.Adopted = &b
		}
		if v := strings.TrimSpace(r.URL.Query().Get("owner")); v != "" {
			owner, err := ids.Parse(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "owner must be a valid id")
				return
			}
			f.Owner = &owner
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, p := range items {
			out = append(out, NewResponse(p))
		}
		respond.Payload(w, http.StatusOK, out)
	}
}

// createPetHandler
// @Summary      Create a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        pet  body      createPetRequest  true  "pet"
// @Success      201  {object}  respond.SuccessResponse
// @Failure      400  {object}  respond.ErrorResponse
// @Router       /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := parseDate(req.BirthDate)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:      req.Name,
			Specie:    req.Specie,
			BirthDate: bd,
			Image:     req.Image,
		})
		if err != nil {
			writeErr(w, err)
			return
		}

		respond.Payload(w, http.StatusCreated, NewResponse(p))
	}
}

// getPetHandler
// @Summary      Get a pet
// @Tags         pets
// @Produce      json
// @Param        pid  path      string  true  "pet id"
// @Success      200  {object}  respond.SuccessResponse
// @Failure      404  {object}  respond.ErrorResponse
// @Router       /pets/{pid} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "pid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		respond.Payload(w, http.StatusOK, NewResponse(p))
	}
}

// updatePetHandler solo modifica el perfil; adopted/owner se rechazan como campos desconocidos.
// @Summary      Update a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        pid  path      string            true  "pet id"
// @Param        pet  body      updatePetRequest  true  "fields to change"
// @Success      200  {object}  respond.SuccessMessage
// @Failure      400  {object}  respond.ErrorResponse
// @Failure      404  {object}  respond.ErrorResponse
// @Router       /pets/{pid} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "pid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		body, err := readBody(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updatePetRequest
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Detectar presencia de birthDate (para permitir null = limpiar)
		var raw map[string]json.RawMessage
		_ = json.Unmarshal(body, &raw)

		bd := BirthDatePatch{}
		if v, exists := raw["birthDate"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD or null")
					return
				}
				t, err := parseDate(s)
				if err != nil {
					respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD or null")
					return
				}
				bd.Value = &t
			}
		}

		_, err = svc.Update(r.Context(), id, UpdateInput{
			Name:      req.Name,
			Specie:    req.Specie,
			Image:     req.Image,
			BirthDate: bd,
		})
		if err != nil {
			writeErr(w, err)
			return
		}

		respond.Message(w, http.StatusOK, "Pet updated")
	}
}

// deletePetHandler
// @Summary      Delete a pet
// @Tags         pets
// @Produce      json
// @Param        pid  path      string  true  "pet id"
// @Success      200  {object}  respond.SuccessMessage
// @Failure      404  {object}  respond.ErrorResponse
// @Failure      409  {object}  respond.ErrorResponse
// @Router       /pets/{pid} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "pid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		respond.Message(w, http.StatusOK, "Pet deleted")
	}
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAdoptedPet):
		respond.Error(w, http.StatusConflict, "Cannot delete an adopted pet")
	default:
		respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func readBody(r *http.Request) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("empty body")
	}
	return buf.Bytes(), nil
}
