package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"adoptme/internal/platform/ids"
)

// Normalize convierte valores que vienen del caller o de un driver (bson,
// ext-JSON) a los tipos canónicos del store:
//   - ObjectID -> ids.ID
//   - fechas -> time.Time UTC truncado a milisegundos (precisión de BSON)
//   - sub-documentos -> Document
//   - arrays -> []any
//   - enteros -> int64
//
// Siempre devuelve copias nuevas de mapas y slices.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case ids.ID:
		return x
	case *ids.ID:
		if x == nil {
			return nil
		}
		return *x
	case primitive.ObjectID:
		return ids.FromObjectID(x)
	case primitive.DateTime:
		return x.Time().UTC().Truncate(time.Millisecond)
	case time.Time:
		return x.UTC().Truncate(time.Millisecond)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Truncate(time.Millisecond)
	case Document:
		return normalizeMap(x)
	case Filter:
		return normalizeMap(x)
	case Patch:
		return normalizeMap(x)
	case primitive.M:
		return normalizeMap(x)
	case map[string]any:
		return normalizeMap(x)
	case primitive.D:
		out := make(Document, len(x))
		for _, e := range x {
			out[e.Key] = Normalize(e.Value)
		}
		return out
	case primitive.A:
		return normalizeSlice(x)
	case []any:
		return normalizeSlice(x)
	case []Document:
		out := make([]any, len(x))
		for i, d := range x {
			out[i] = normalizeMap(d)
		}
		return out
	case int:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}

// NormalizeDocument es Normalize para el caso documento.
func NormalizeDocument(m map[string]any) Document {
	if m == nil {
		return nil
	}
	return normalizeMap(m)
}

func normalizeMap(m map[string]any) Document {
	out := make(Document, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Normalize(v)
	}
	return out
}

// Accessors tolerantes: devuelven el valor cero si la key falta o tiene otro tipo.

func (d Document) ID() ids.ID {
	id, _ := d[IDField].(ids.ID)
	return id
}

func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

func (d Document) Time(key string) *time.Time {
	t, ok := d[key].(time.Time)
	if !ok {
		return nil
	}
	return &t
}

func (d Document) Ref(key string) (ids.ID, bool) {
	id, ok := d[key].(ids.ID)
	if !ok || id.IsZero() {
		return ids.ID{}, false
	}
	return id, true
}

func (d Document) Documents(key string) []Document {
	raw, _ := d[key].([]any)
	out := make([]Document, 0, len(raw))
	for _, v := range raw {
		if sub, ok := v.(Document); ok {
			out = append(out, sub)
		}
	}
	return out
}
