package users

import (
	"time"

	"adoptme/internal/platform/ids"
)

// Role define el rol del usuario.
// @Enum user, admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PetRef es la copia desnormalizada de una mascota adoptada que se guarda en
// el usuario al momento de la adopción.
type PetRef struct {
	ID        ids.ID
	Name      string
	Specie    string
	BirthDate *time.Time
	Image     string
}

// User es un adoptante (o admin). PasswordHash es siempre un hash bcrypt.
type User struct {
	ID ids.ID

	FirstName string
	LastName  string
	Email     string // único, en minúsculas

	PasswordHash string
	Role         Role

	// Pets en orden de adopción.
	Pets []PetRef
}
