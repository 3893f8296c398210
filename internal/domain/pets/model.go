package pets

import (
	"time"

	"adoptme/internal/platform/ids"
)

// KnownSpecies son las especies que usa el generador de mocks. La API acepta
// cualquier especie (campo libre).
var KnownSpecies = []string{"dog", "cat", "rabbit", "hamster", "bird", "fish"}

// Pet representa una mascota publicada para adopción.
//
// Invariante: Adopted == true si y solo si Owner != nil. Solo MarkAdopted
// cambia ambos campos (una vez por mascota, false -> true).
type Pet struct {
	ID ids.ID

	Name      string
	Specie    string
	BirthDate *time.Time
	Image     string

	Adopted bool
	Owner   *ids.ID
}
