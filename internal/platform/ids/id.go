package ids

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalid se devuelve cuando un identificador no es una clave bien formada.
var ErrInvalid = errors.New("invalid identifier")

// ID es el identificador de documentos del store: un ObjectID de 12 bytes,
// representado como 24 caracteres hex en JSON y en URLs.
// El valor cero no es un identificador válido.
type ID struct {
	oid primitive.ObjectID
}

func New() ID {
	return ID{oid: primitive.NewObjectID()}
}

// Parse valida s y lo convierte en ID. Falla con ErrInvalid si s no son
// 24 caracteres hex o si representa el ObjectID cero.
func Parse(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil || oid.IsZero() {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return ID{oid: oid}, nil
}

// MustParse es para tests y constantes.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func FromObjectID(oid primitive.ObjectID) ID {
	return ID{oid: oid}
}

func (id ID) ObjectID() primitive.ObjectID { return id.oid }

func (id ID) IsZero() bool { return id.oid.IsZero() }

func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.oid.Hex()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, string(b))
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBSONValue hace que el driver de Mongo (y el codec ext-JSON) guarde
// el ID como ObjectID nativo.
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.oid)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bson.TypeObjectID {
		return fmt.Errorf("%w: bson type %s", ErrInvalid, t)
	}
	var oid primitive.ObjectID
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&oid); err != nil {
		return err
	}
	id.oid = oid
	return nil
}
