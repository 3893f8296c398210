package adoptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
	"adoptme/internal/platform/ids"
	"adoptme/internal/platform/logger"
)

var (
	ErrNotFound       = errors.New("adoption not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrPetNotFound    = errors.New("pet not found")
	ErrAlreadyAdopted = errors.New("pet is already adopted")
)

// UserDirectory es lo que el flujo de adopción necesita de users.
type UserDirectory interface {
	GetByID(ctx context.Context, id ids.ID) (users.User, error)
	AppendPet(ctx context.Context, id ids.ID, ref users.PetRef) error
}

// PetCatalog es lo que el flujo de adopción necesita de pets.
type PetCatalog interface {
	GetByID(ctx context.Context, id ids.ID) (pets.Pet, error)
	MarkAdopted(ctx context.Context, petID, owner ids.ID) (pets.Pet, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	pets  PetCatalog
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, u UserDirectory, p PetCatalog, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		users: u,
		pets:  p,
		log:   log,
		now:   time.Now,
	}
}

// Adopt ejecuta una adopción:
//  1. busca el usuario (ErrUserNotFound)
//  2. busca la mascota (ErrPetNotFound)
//  3. si ya está adoptada -> ErrAlreadyAdopted, sin mutar nada
//  4. marca la mascota adoptada con compare-and-swap sobre adopted
//  5. agrega la mascota a la lista del usuario
//  6. inserta el registro de adopción
//
// No hay rollback: si 5 o 6 fallan la mascota queda adoptada y el error se
// devuelve tal cual. Como el registro se inserta último, toda Adoption
// existente apunta a una mascota con adopted=true y owner=Owner.
func (s *Service) Adopt(ctx context.Context, userID, petID ids.ID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return ErrPetNotFound
		}
		return fmt.Errorf("get pet: %w", err)
	}
	if pet.Adopted {
		return ErrAlreadyAdopted
	}

	adopted, err := s.pets.MarkAdopted(ctx, petID, user.ID)
	switch {
	case errors.Is(err, pets.ErrAlreadyAdopted):
		// otra adopción concurrente ganó el CAS
		return ErrAlreadyAdopted
	case errors.Is(err, pets.ErrNotFound):
		return ErrPetNotFound
	case err != nil:
		return fmt.Errorf("mark pet adopted: %w", err)
	}

	fields := map[string]any{"user_id": userID.String(), "pet_id": petID.String()}

	if err := s.users.AppendPet(ctx, userID, users.PetRef{
		ID:        adopted.ID,
		Name:      adopted.Name,
		Specie:    adopted.Specie,
		BirthDate: adopted.BirthDate,
		Image:     adopted.Image,
	}); err != nil {
		s.log.Error("adoption incomplete: pet marked adopted but user not updated", withErr(fields, err))
		return fmt.Errorf("append pet to user: %w", err)
	}

	a, err := s.repo.Create(ctx, Adoption{
		Owner:     userID,
		Pet:       petID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Error("adoption incomplete: adoption record not stored", withErr(fields, err))
		return fmt.Errorf("create adoption: %w", err)
	}

	fields["adoption_id"] = a.ID.String()
	s.log.Info("pet adopted", fields)
	return nil
}

func (s *Service) List(ctx context.Context) ([]Adoption, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, owner ids.ID) ([]Adoption, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Service) GetByID(ctx context.Context, id ids.ID) (Adoption, error) {
	return s.repo.GetByID(ctx, id)
}

func withErr(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err
	return out
}
