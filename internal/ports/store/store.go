package store

import (
	"context"
	"errors"

	"adoptme/internal/platform/ids"
)

// Collection identifica una colección del document store.
type Collection string

const (
	Users     Collection = "users"
	Pets      Collection = "pets"
	Adoptions Collection = "adoptions"
)

// Collections conocidas por todos los drivers (tablas/colecciones a preparar).
var Collections = []Collection{Users, Pets, Adoptions}

// UniqueFields lista los campos top-level con valor único por colección.
var UniqueFields = map[Collection][]string{
	Users: {"email"},
}

// IDField es la key del identificador dentro de cada Document.
const IDField = "_id"

var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidIdentifier = ids.ErrInvalid
	ErrConflict          = errors.New("document does not match condition")
	ErrDuplicate         = errors.New("duplicate unique field")
	ErrUnknownCollection = errors.New("unknown collection")
)

type (
	// Document es un documento con valores normalizados (ver Normalize).
	Document map[string]any

	// Filter es un filtro de igualdad sobre campos top-level. nil = todos.
	Filter map[string]any

	// Patch reemplaza campos top-level ($set).
	Patch map[string]any
)

// Store es el contrato del Document Store Adapter. Un Store se construye una
// vez al arrancar el proceso, se inyecta en los repositorios y se cierra al salir.
type Store interface {
	// Create inserta doc y devuelve su id (generado si doc no trae "_id").
	Create(ctx context.Context, c Collection, doc Document) (ids.ID, error)
	FindByID(ctx context.Context, c Collection, id ids.ID) (Document, error)
	// FindAll devuelve los documentos que cumplen f, en el orden nativo del driver.
	FindAll(ctx context.Context, c Collection, f Filter) ([]Document, error)
	Update(ctx context.Context, c Collection, id ids.ID, p Patch) (Document, error)
	// UpdateIf aplica p solo si el documento cumple cond, de forma atómica.
	// Devuelve ErrConflict si el documento existe pero no cumple cond.
	UpdateIf(ctx context.Context, c Collection, id ids.ID, cond Filter, p Patch) (Document, error)
	// Push agrega value al final del array field, de forma atómica.
	Push(ctx context.Context, c Collection, id ids.ID, field string, value any) (Document, error)
	Delete(ctx context.Context, c Collection, id ids.ID) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Known indica si c es una colección registrada.
func Known(c Collection) bool {
	for _, k := range Collections {
		if k == c {
			return true
		}
	}
	return false
}
