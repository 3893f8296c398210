package mocks

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
)

var petNames = []string{
	"Max", "Buddy", "Charlie", "Lucy", "Cooper",
	"Luna", "Daisy", "Milo", "Bella", "Rocky",
	"Molly", "Jack", "Sophie", "Toby", "Sadie",
}

var roles = []string{string(users.RoleUser), string(users.RoleAdmin)}

// Generator arma usuarios y mascotas falsos. gofakeit.Faker no es seguro
// para uso concurrente, así que cada llamada toma el lock.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator con seed 0 usa una semilla aleatoria.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// User devuelve un usuario sin persistir con el hash de password dado.
func (g *Generator) User(passwordHash string) users.User {
	g.mu.Lock()
	defer g.mu.Unlock()

	return users.User{
		FirstName:    g.faker.FirstName(),
		LastName:     g.faker.LastName(),
		Email:        g.faker.Email(),
		PasswordHash: passwordHash,
		Role:         users.Role(g.faker.RandomString(roles)),
		Pets:         []users.PetRef{},
	}
}

// Pet devuelve una mascota sin adoptar con fecha de nacimiento en los
// últimos 10 años.
func (g *Generator) Pet() pets.Pet {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	bd := g.faker.DateRange(now.AddDate(-10, 0, 0), now).UTC().Truncate(time.Millisecond)

	return pets.Pet{
		Name:      g.faker.RandomString(petNames),
		Specie:    g.faker.RandomString(pets.KnownSpecies),
		BirthDate: &bd,
		Image:     g.faker.ImageURL(640, 480),
	}
}
