package mocks

import (
	"context"
	"errors"
	"fmt"

	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
	"adoptme/internal/platform/logger"
)

const (
	DefaultUsers = 50
	DefaultPets  = 10
	MaxPets      = 100
	MaxGenerate  = 1000
)

var ErrValidation = errors.New("validation error")

// Hasher es el mismo contrato que usa users.
type Hasher interface {
	Hash(plain string) (string, error)
}

type UserSink interface {
	Insert(ctx context.Context, u users.User) (users.User, error)
}

type PetSink interface {
	Insert(ctx context.Context, p pets.Pet) (pets.Pet, error)
}

// Batch resume una inserción masiva: cuántos se pidieron y cuáles quedaron.
type Batch[T any] struct {
	Requested int
	Created   int
	Data      []T
}

type Result struct {
	Users Batch[users.User]
	Pets  Batch[pets.Pet]
}

type Service struct {
	gen      *Generator
	hasher   Hasher
	password string
	users    UserSink
	pets     PetSink
	log      logger.Logger
}

func NewService(gen *Generator, hasher Hasher, password string, u UserSink, p PetSink, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		gen:      gen,
		hasher:   hasher,
		password: password,
		users:    u,
		pets:     p,
		log:      log,
	}
}

// MockUsers genera count usuarios sin persistirlos. El password se hashea una
// sola vez por lote; bcrypt es caro y todos comparten el mismo password.
func (s *Service) MockUsers(count int) ([]users.User, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative", ErrValidation)
	}
	if count == 0 {
		return []users.User{}, nil
	}

	hash, err := s.hasher.Hash(s.password)
	if err != nil {
		return nil, fmt.Errorf("hash mock password: %w", err)
	}

	out := make([]users.User, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.gen.User(hash))
	}
	return out, nil
}

// MockPets genera count mascotas sin persistirlas.
func (s *Service) MockPets(count int) ([]pets.Pet, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative", ErrValidation)
	}
	if count > MaxPets {
		return nil, fmt.Errorf("%w: cannot generate more than %d pets at once", ErrValidation, MaxPets)
	}

	out := make([]pets.Pet, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.gen.Pet())
	}
	return out, nil
}

// Generate genera e inserta nUsers usuarios y nPets mascotas. Las fallas
// individuales (ej. email repetido) se loguean y se saltean.
func (s *Service) Generate(ctx context.Context, nUsers, nPets int) (Result, error) {
	if nUsers < 0 || nPets < 0 {
		return Result{}, fmt.Errorf("%w: users and pets must be non-negative integers", ErrValidation)
	}
	if nUsers > MaxGenerate || nPets > MaxGenerate {
		return Result{}, fmt.Errorf("%w: cannot generate more than %d records per type at once", ErrValidation, MaxGenerate)
	}

	res := Result{
		Users: Batch[users.User]{Requested: nUsers, Data: []users.User{}},
		Pets:  Batch[pets.Pet]{Requested: nPets, Data: []pets.Pet{}},
	}

	mockUsers, err := s.MockUsers(nUsers)
	if err != nil {
		return Result{}, err
	}
	for _, u := range mockUsers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		created, err := s.users.Insert(ctx, u)
		if err != nil {
			s.log.Warn("skipping mock user", map[string]any{"email": u.Email, "error": err})
			continue
		}
		res.Users.Created++
		res.Users.Data = append(res.Users.Data, created)
	}

	for i := 0; i < nPets; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		created, err := s.pets.Insert(ctx, s.gen.Pet())
		if err != nil {
			s.log.Warn("skipping mock pet", map[string]any{"error": err})
			continue
		}
		res.Pets.Created++
		res.Pets.Data = append(res.Pets.Data, created)
	}

	s.log.Info("mock data generated", map[string]any{
		"users_requested": nUsers,
		"users_created":   res.Users.Created,
		"pets_requested":  nPets,
		"pets_created":    res.Pets.Created,
	})
	return res, nil
}
