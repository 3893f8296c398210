package documents

import (
	"context"
	"errors"

	"adoptme/internal/domain/users"
	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

// UsersRepo mapea users.User <-> documento de la colección "users".
type UsersRepo struct {
	st store.Store
}

func NewUsersRepo(st store.Store) *UsersRepo {
	return &UsersRepo{st: st}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	if u.Pets == nil {
		u.Pets = []users.PetRef{}
	}
	id, err := r.st.Create(ctx, store.Users, userToDoc(u))
	if err != nil {
		return users.User{}, mapUserErr(err)
	}
	u.ID = id
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id ids.ID) (users.User, error) {
	d, err := r.st.FindByID(ctx, store.Users, id)
	if err != nil {
		return users.User{}, mapUserErr(err)
	}
	return userFromDoc(d), nil
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	docs, err := r.st.FindAll(ctx, store.Users, nil)
	if err != nil {
		return nil, err
	}
	out := make([]users.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, userFromDoc(d))
	}
	return out, nil
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) (users.User, error) {
	d, err := r.st.Update(ctx, store.Users, u.ID, store.Patch{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"password":   u.PasswordHash,
		"role":       string(u.Role),
	})
	if err != nil {
		return users.User{}, mapUserErr(err)
	}
	return userFromDoc(d), nil
}

func (r *UsersRepo) AppendPet(ctx context.Context, id ids.ID, ref users.PetRef) error {
	_, err := r.st.Push(ctx, store.Users, id, "pets", petRefToDoc(ref))
	return mapUserErr(err)
}

func (r *UsersRepo) Delete(ctx context.Context, id ids.ID) error {
	return mapUserErr(r.st.Delete(ctx, store.Users, id))
}

func userToDoc(u users.User) store.Document {
	pets := make([]any, 0, len(u.Pets))
	for _, p := range u.Pets {
		pets = append(pets, petRefToDoc(p))
	}
	d := store.Document{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"password":   u.PasswordHash,
		"role":       string(u.Role),
		"pets":       pets,
	}
	if !u.ID.IsZero() {
		d[store.IDField] = u.ID
	}
	return d
}

func userFromDoc(d store.Document) users.User {
	subs := d.Documents("pets")
	pets := make([]users.PetRef, 0, len(subs))
	for _, p := range subs {
		pets = append(pets, users.PetRef{
			ID:        p.ID(),
			Name:      p.String("name"),
			Specie:    p.String("specie"),
			BirthDate: p.Time("birthDate"),
			Image:     p.String("image"),
		})
	}
	return users.User{
		ID:           d.ID(),
		FirstName:    d.String("first_name"),
		LastName:     d.String("last_name"),
		Email:        d.String("email"),
		PasswordHash: d.String("password"),
		Role:         users.Role(d.String("role")),
		Pets:         pets,
	}
}

func petRefToDoc(p users.PetRef) store.Document {
	d := store.Document{
		store.IDField: p.ID,
		"name":        p.Name,
		"specie":      p.Specie,
		"image":       p.Image,
	}
	if p.BirthDate != nil {
		d["birthDate"] = *p.BirthDate
	}
	return d
}

func mapUserErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return users.ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return users.ErrEmailTaken
	default:
		return err
	}
}
