package documents

import (
	"context"
	"errors"

	"adoptme/internal/domain/pets"
	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

type PetsRepo struct {
	st store.Store
}

func NewPetsRepo(st store.Store) *PetsRepo {
	return &PetsRepo{st: st}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	id, err := r.st.Create(ctx, store.Pets, petToDoc(p))
	if err != nil {
		return pets.Pet{}, mapPetErr(err)
	}
	p.ID = id
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id ids.ID) (pets.Pet, error) {
	d, err := r.st.FindByID(ctx, store.Pets, id)
	if err != nil {
		return pets.Pet{}, mapPetErr(err)
	}
	return petFromDoc(d), nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	filter := store.Filter{}
	if f.Adopted != nil {
		filter["adopted"] = *f.Adopted
	}
	if f.Owner != nil {
		filter["owner"] = *f.Owner
	}

	docs, err := r.st.FindAll(ctx, store.Pets, filter)
	if err != nil {
		return nil, err
	}
	out := make([]pets.Pet, 0, len(docs))
	for _, d := range docs {
		out = append(out, petFromDoc(d))
	}
	return out, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	patch := store.Patch{
		"name":      p.Name,
		"specie":    p.Specie,
		"image":     p.Image,
		"birthDate": nil,
	}
	if p.BirthDate != nil {
		patch["birthDate"] = *p.BirthDate
	}

	d, err := r.st.Update(ctx, store.Pets, p.ID, patch)
	if err != nil {
		return pets.Pet{}, mapPetErr(err)
	}
	return petFromDoc(d), nil
}

func (r *PetsRepo) MarkAdopted(ctx context.Context, id, owner ids.ID) (pets.Pet, error) {
	d, err := r.st.UpdateIf(ctx, store.Pets, id,
		store.Filter{"adopted": false},
		store.Patch{"adopted": true, "owner": owner},
	)
	if err != nil {
		return pets.Pet{}, mapPetErr(err)
	}
	return petFromDoc(d), nil
}

func (r *PetsRepo) Delete(ctx context.Context, id ids.ID) error {
	return mapPetErr(r.st.Delete(ctx, store.Pets, id))
}

func petToDoc(p pets.Pet) store.Document {
	d := store.Document{
		"name":    p.Name,
		"specie":  p.Specie,
		"adopted": p.Adopted,
		"image":   p.Image,
	}
	if p.BirthDate != nil {
		d["birthDate"] = *p.BirthDate
	}
	if p.Owner != nil {
		d["owner"] = *p.Owner
	}
	if !p.ID.IsZero() {
		d[store.IDField] = p.ID
	}
	return d
}

func petFromDoc(d store.Document) pets.Pet {
	p := pets.Pet{
		ID:        d.ID(),
		Name:      d.String("name"),
		Specie:    d.String("specie"),
		BirthDate: d.Time("birthDate"),
		Image:     d.String("image"),
		Adopted:   d.Bool("adopted"),
	}
	if owner, ok := d.Ref("owner"); ok {
		p.Owner = &owner
	}
	return p
}

func mapPetErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return pets.ErrNotFound
	case errors.Is(err, store.ErrConflict):
		return pets.ErrAlreadyAdopted
	default:
		return err
	}
}
