package adoptions

import (
	"time"

	"adoptme/internal/platform/ids"
)

// Adoption es un registro inmutable (append-only) que vincula un adoptante
// con una mascota en el momento de la adopción.
type Adoption struct {
	ID        ids.ID
	Owner     ids.ID
	Pet       ids.ID
	CreatedAt time.Time
}
