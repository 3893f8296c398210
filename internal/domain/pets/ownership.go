package pets

import (
	"context"

	"adoptme/internal/platform/ids"
)

// MarkAdopted asigna owner a la mascota si todavía no fue adoptada. Es la
// única transición de adopted (false -> true) y es atómica en el store:
// de dos llamadas concurrentes sobre la misma mascota solo una gana, la otra
// recibe ErrAlreadyAdopted.
func (s *Service) MarkAdopted(ctx context.Context, petID, owner ids.ID) (Pet, error) {
	return s.repo.MarkAdopted(ctx, petID, owner)
}
