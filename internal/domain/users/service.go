package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"adoptme/internal/platform/ids"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrHasPets      = errors.New("users with adopted pets cannot be deleted")
)

// Hasher evita acoplar el dominio a bcrypt.
type Hasher interface {
	Hash(plain string) (string, error)
}

type Service struct {
	repo     Repository
	hasher   Hasher
	validate *validator.Validate
}

func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		validate: validator.New(),
	}
}

type CreateInput struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Email     string `validate:"required,email"`
	// bcrypt ignora todo lo que pase de 72 bytes
	Password string `validate:"required,min=6,max=72"`
	Role     Role   `validate:"omitempty,oneof=user admin"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = RoleUser
	}

	if err := s.validate.Struct(in); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Pets:         []PetRef{},
	})
}

// Insert persiste un usuario con el password ya hasheado (generador de mocks).
func (s *Service) Insert(ctx context.Context, u User) (User, error) {
	u.ID = ids.ID{}
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.PasswordHash == "" || !u.Role.Valid() {
		return User{}, ErrInvalidInput
	}
	if err := s.validate.Var(u.Email, "required,email"); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Pets == nil {
		u.Pets = []PetRef{}
	}
	return s.repo.Create(ctx, u)
}

func (s *Service) GetByID(ctx context.Context, id ids.ID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *Role
}

func (s *Service) Update(ctx context.Context, id ids.ID, in UpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return User{}, fmt.Errorf("%w: first_name cannot be empty", ErrInvalidInput)
		}
		u.FirstName = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return User{}, fmt.Errorf("%w: last_name cannot be empty", ErrInvalidInput)
		}
		u.LastName = v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		if err := s.validate.Var(v, "required,email"); err != nil {
			return User{}, fmt.Errorf("%w: email", ErrInvalidInput)
		}
		u.Email = v
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return User{}, fmt.Errorf("%w: role must be user or admin", ErrInvalidInput)
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if err := s.validate.Var(*in.Password, "required,min=6,max=72"); err != nil {
			return User{}, fmt.Errorf("%w: password", ErrInvalidInput)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	return s.repo.Update(ctx, u)
}

// Delete rechaza usuarios con mascotas adoptadas para no dejar owners huérfanos.
func (s *Service) Delete(ctx context.Context, id ids.ID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(u.Pets) > 0 {
		return ErrHasPets
	}
	return s.repo.Delete(ctx, id)
}

// AppendPet registra en el usuario la mascota recién adoptada.
func (s *Service) AppendPet(ctx context.Context, id ids.ID, ref PetRef) error {
	return s.repo.AppendPet(ctx, id, ref)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
