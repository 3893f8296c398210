package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adoptme/internal/platform/ids"
	"adoptme/internal/platform/respond"
)

const msgNotFound = "User not found"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))

		ur.Get("/{uid}", getUserHandler(svc))
		ur.Put("/{uid}", updateUserHandler(svc))
		ur.Delete("/{uid}", deleteUserHandler(svc))
	})
}

type createUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role" enums:"user,admin"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *Role   `json:"role" enums:"user,admin"`
}

type PetRefResponse struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Specie    string     `json:"specie"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Image     string     `json:"image,omitempty"`
}

// Response es la representación pública de un usuario. El hash del password
// nunca se serializa.
type Response struct {
	ID        string           `json:"_id,omitempty"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Pets      []PetRefResponse `json:"pets"`
}

func NewResponse(u User) Response {
	pets := make([]PetRefResponse, 0, len(u.Pets))
	for _, p := range u.Pets {
		pets = append(pets, PetRefResponse{
			ID:        p.ID.String(),
			Name:      p.Name,
			Specie:    p.Specie,
			BirthDate: p.BirthDate,
			Image:     p.Image,
		})
	}
	return Response{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Pets:      pets,
	}
}

// listUsersHandler
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  respond.SuccessResponse
// @Failure      500  {object}  respond.ErrorResponse
// @Router       /users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, u := range items {
			out = append(out, NewResponse(u))
		}
		respond.Payload(w, http.StatusOK, out)
	}
}

// createUserHandler
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      createUserRequest  true  "user"
// @Success      201   {object}  respond.SuccessResponse
// @Failure      400   {object}  respond.ErrorResponse
// @Failure      409   {object}  respond.ErrorResponse
// @Router       /users [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      req.Role,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		respond.Payload(w, http.StatusCreated, NewResponse(u))
	}
}

// getUserHandler
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        uid  path      string  true  "user id"
// @Success      200  {object}  respond.SuccessResponse
// @Failure      404  {object}  respond.ErrorResponse
// @Router       /users/{uid} [get]
func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		u, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		respond.Payload(w, http.StatusOK, NewResponse(u))
	}
}

// updateUserHandler
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uid   path      string             true  "user id"
// @Param        user  body      updateUserRequest  true  "fields to change"
// @Success      200   {object}  respond.SuccessMessage
// @Failure      400   {object}  respond.ErrorResponse
// @Failure      404   {object}  respond.ErrorResponse
// @Failure      409   {object}  respond.ErrorResponse
// @Router       /users/{uid} [put]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		var req updateUserRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		_, err = svc.Update(r.Context(), id, UpdateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      req.Role,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		respond.Message(w, http.StatusOK, "User updated")
	}
}

// deleteUserHandler
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        uid  path      string  true  "user id"
// @Success      200  {object}  respond.SuccessMessage
// @Failure      404  {object}  respond.ErrorResponse
// @Failure      409  {object}  respond.ErrorResponse
// @Router       /users/{uid} [delete]
func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ids.Parse(chi.URLParam(r, "uid"))
		if err != nil {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		respond.Message(w, http.StatusOK, "User deleted")
	}
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrHasPets):
		respond.Error(w, http.StatusConflict, "Cannot delete a user with adopted pets")
	default:
		respond.ErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
	}
}
