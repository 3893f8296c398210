package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"adoptme/internal/platform/ids"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("pet not found")
	ErrAlreadyAdopted = errors.New("pet is already adopted")
	ErrAdoptedPet     = errors.New("adopted pets cannot be deleted")
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

type CreateInput struct {
	Name      string `validate:"required,max=100"`
	Specie    string `validate:"required,max=50"`
	BirthDate *time.Time
	Image     string `validate:"omitempty,max=2048"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Specie = strings.ToLower(strings.TrimSpace(in.Specie))
	in.Image = strings.TrimSpace(in.Image)

	if err := s.validate.Struct(in); err != nil {
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.checkBirthDate(in.BirthDate); err != nil {
		return Pet{}, err
	}

	return s.repo.Create(ctx, Pet{
		Name:      in.Name,
		Specie:    in.Specie,
		BirthDate: in.BirthDate,
		Image:     in.Image,
	})
}

// Insert persiste una mascota ya armada (generador de mocks). Siempre entra
// sin adoptar, para no romper el invariante adopted <-> owner.
func (s *Service) Insert(ctx context.Context, p Pet) (Pet, error) {
	p.ID = ids.ID{}
	p.Adopted = false
	p.Owner = nil
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Specie) == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id ids.ID) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Pet, error) {
	return s.repo.List(ctx, f)
}

// BirthDatePatch distingue "no enviado" de "enviado null" (limpiar).
type BirthDatePatch struct {
	Present bool
	Value   *time.Time
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Name      *string
	Specie    *string
	Image     *string
	BirthDate BirthDatePatch
}

func (s *Service) Update(ctx context.Context, id ids.ID, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Pet{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		p.Name = v
	}
	if in.Specie != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Specie))
		if v == "" {
			return Pet{}, fmt.Errorf("%w: specie cannot be empty", ErrInvalidInput)
		}
		p.Specie = v
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.BirthDate.Present {
		if err := s.checkBirthDate(in.BirthDate.Value); err != nil {
			return Pet{}, err
		}
		p.BirthDate = in.BirthDate.Value
	}

	return s.repo.Update(ctx, p)
}

// Delete rechaza mascotas adoptadas: su registro de adopción y el dueño
// siguen apuntando a ellas.
func (s *Service) Delete(ctx context.Context, id ids.ID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Adopted {
		return ErrAdoptedPet
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkBirthDate(bd *time.Time) error {
	if bd != nil && bd.After(s.now()) {
		return fmt.Errorf("%w: birthDate cannot be in the future", ErrInvalidInput)
	}
	return nil
}
