package documents

import (
	"context"
	"errors"

	"adoptme/internal/domain/adoptions"
	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

type AdoptionsRepo struct {
	st store.Store
}

func NewAdoptionsRepo(st store.Store) *AdoptionsRepo {
	return &AdoptionsRepo{st: st}
}

var _ adoptions.Repository = (*AdoptionsRepo)(nil)

func (r *AdoptionsRepo) Create(ctx context.Context, a adoptions.Adoption) (adoptions.Adoption, error) {
	id, err := r.st.Create(ctx, store.Adoptions, store.Document{
		"owner":     a.Owner,
		"pet":       a.Pet,
		"createdAt": a.CreatedAt,
	})
	if err != nil {
		return adoptions.Adoption{}, err
	}
	a.ID = id
	return a, nil
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id ids.ID) (adoptions.Adoption, error) {
	d, err := r.st.FindByID(ctx, store.Adoptions, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return adoptions.Adoption{}, adoptions.ErrNotFound
		}
		return adoptions.Adoption{}, err
	}
	return adoptionFromDoc(d), nil
}

func (r *AdoptionsRepo) List(ctx context.Context) ([]adoptions.Adoption, error) {
	return r.find(ctx, nil)
}

func (r *AdoptionsRepo) ListByOwner(ctx context.Context, owner ids.ID) ([]adoptions.Adoption, error) {
	return r.find(ctx, store.Filter{"owner": owner})
}

func (r *AdoptionsRepo) find(ctx context.Context, f store.Filter) ([]adoptions.Adoption, error) {
	docs, err := r.st.FindAll(ctx, store.Adoptions, f)
	if err != nil {
		return nil, err
	}
	out := make([]adoptions.Adoption, 0, len(docs))
	for _, d := range docs {
		out = append(out, adoptionFromDoc(d))
	}
	return out, nil
}

func adoptionFromDoc(d store.Document) adoptions.Adoption {
	a := adoptions.Adoption{ID: d.ID()}
	a.Owner, _ = d.Ref("owner")
	a.Pet, _ = d.Ref("pet")
	// registros insertados a mano (sin createdAt) quedan en cero
	if t := d.Time("createdAt"); t != nil {
		a.CreatedAt = *t
	}
	return a
}
