package adoptions

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adoptme/internal/platform/ids"
	"adoptme/internal/platform/respond"
)

const (
	msgNotFound       = "Adoption not found"
	msgUserNotFound   = "user Not found"
	msgPetNotFound    = "Pet not found"
	msgAlreadyAdopted = "Pet is already adopted"
	msgAdopted        = "Pet adopted"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/adoptions", func(ar chi.Router) {
		ar.Get("/", listAdoptionsHandler(svc))
		ar.Get("/{aid}", getAdoptionHandler(svc))
		ar.Post("/{uid}/{pid}", adoptHandler(svc))
	})
}

type adoptionResponse struct {
	ID        string    `json:"_id"`
	Owner     string    `json:"owner"`
	Pet       string    `json:"pet"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdoptionResponse(a Adoption) adoptionResponse {
	return adoptionResponse{
		ID:        a.ID.String(),
		Owner:     a.Owner.String(),
		Pet:       a.Pet.String(),
		CreatedAt: a.CreatedAt,
	}
}

// listAdoptionsHandler
// @Summary      List adoptions
// @Description  Returns every adoption record in store order. Optional owner filter.
// @Tags         adoptions
// @Produce      json
// @Param        owner  query     string  false  "filter by owner user id"
// @Success      200    {object}  respond.SuccessResponse
// @Failure      400    {object}  respond.ErrorResponse
// @Failure      500    {object}  respond.ErrorResponse
// @Router       /adoptions [get]
func listAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Adoption
			err   error
		)

		if v := strings.TrimSpace(r.URL.Query().Get("owner")); v != "" {
			owner, perr := ids.Parse(v)
			if perr != nil {
				respond.Error(w, http.StatusBadRequest, "owner must be a valid id")
				return
			}
			items, err = svc.ListByOwner(r.Context(), owner)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		out := make([]adoptionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAdoptionResponse(a))
		}
		respond.Payload(w, http.StatusOK, out)
	}
}

// getAdoptionHandler: ids mal formados responden 404 igual que los inexistentes.
// @Summary      Get an adoption
// @Tags         adoptions
// @Produce      json
// @Param        aid  path      string  true  "adoption id"
// @Success      200  {object}  respond.SuccessResponse
// @Failure      404  {object}  respond.ErrorResponse
// @Router       /adoptions/{aid} [get]
func getAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "aid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		respond.Payload(w, http.StatusOK, toAdoptionResponse(a))
	}
}

// adoptHandler
// @Summary      Adopt a pet
// @Tags         adoptions
// @Produce      json
// @Param        uid  path      string  true  "user id"
// @Param        pid  path      string  true  "pet id"
// @Success      200  {object}  respond.SuccessMessage
// @Failure      400  {object}  respond.ErrorResponse
// @Failure      404  {object}  respond.ErrorResponse
// @Failure      500  {object}  respond.ErrorResponse
// @Router       /adoptions/{uid}/{pid} [post]
func adoptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ids.Parse(chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		petID, err := ids.Parse(chi.URLParam(r, "pid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgPetNotFound)
			return
		}

		if err := svc.Adopt(r.Context(), userID, petID); err != nil {
			writeErr(w, err)
			return
		}
		respond.Message(w, http.StatusOK, msgAdopted)
	}
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, ErrPetNotFound):
		respond.Error(w, http.StatusNotFound, msgPetNotFound)
	case errors.Is(err, ErrAlreadyAdopted):
		respond.Error(w, http.StatusBadRequest, msgAlreadyAdopted)
	default:
		respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
	}
}
