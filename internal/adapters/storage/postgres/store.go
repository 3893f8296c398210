package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson"

	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

const uniqueViolation = "23505"

// Store guarda cada documento como JSONB (MongoDB Extended JSON relajado, así
// ids y fechas conservan su tipo). Los filtros usan containment (@>), los
// patches el merge top-level (||).
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func table(c store.Collection) (string, error) {
	if !store.Known(c) {
		return "", fmt.Errorf("%w: %s", store.ErrUnknownCollection, c)
	}
	return string(c), nil
}

func (s *Store) Create(ctx context.Context, c store.Collection, doc store.Document) (ids.ID, error) {
	t, err := table(c)
	if err != nil {
		return ids.ID{}, err
	}

	id := doc.ID()
	if id.IsZero() {
		id = ids.New()
	}
	body, err := encodeDoc(doc)
	if err != nil {
		return ids.ID{}, err
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)
	`, t), id.String(), body)
	if err != nil {
		return ids.ID{}, mapErr(err)
	}
	return id, nil
}

func (s *Store) FindByID(ctx context.Context, c store.Collection, id ids.ID) (store.Document, error) {
	t, err := table(c)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT doc FROM %s WHERE id = $1
	`, t), id.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(id.String(), raw)
}

func (s *Store) FindAll(ctx context.Context, c store.Collection, f store.Filter) ([]store.Document, error) {
	t, err := table(c)
	if err != nil {
		return nil, err
	}

	cond, err := encodeDoc(f)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE doc @> $1::jsonb`, t)
	args := []any{cond}
	if id, ok := f[store.IDField].(ids.ID); ok {
		query += ` AND id = $2`
		args = append(args, id.String())
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.Document, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		d, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, c store.Collection, id ids.ID, p store.Patch) (store.Document, error) {
	return s.UpdateIf(ctx, c, id, nil, p)
}

// UpdateIf es atómico: el UPDATE toma el lock de la fila y re-evalúa el
// WHERE, así dos CAS concurrentes no pueden ganar ambos.
func (s *Store) UpdateIf(ctx context.Context, c store.Collection, id ids.ID, cond store.Filter, p store.Patch) (store.Document, error) {
	t, err := table(c)
	if err != nil {
		return nil, err
	}

	patch, err := encodeDoc(p)
	if err != nil {
		return nil, err
	}
	where, err := encodeDoc(cond)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE %s
		SET doc = doc || $2::jsonb
		WHERE id = $1 AND doc @> $3::jsonb
		RETURNING doc
	`, t), id.String(), patch, where).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.missOrConflict(ctx, t, id)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeDoc(id.String(), raw)
}

func (s *Store) Push(ctx context.Context, c store.Collection, id ids.ID, field string, value any) (store.Document, error) {
	t, err := table(c)
	if err != nil {
		return nil, err
	}

	item, err := encodeValue(value)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE %s
		SET doc = jsonb_set(doc, ARRAY[$2::text], COALESCE(doc->$2::text, '[]'::jsonb) || jsonb_build_array($3::jsonb))
		WHERE id = $1
		RETURNING doc
	`, t), id.String(), field, item).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(id.String(), raw)
}

func (s *Store) Delete(ctx context.Context, c store.Collection, id ids.ID) error {
	t, err := table(c)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t), id.String())
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// Truncate vacía todas las colecciones (tests de integración).
func (s *Store) Truncate(ctx context.Context) error {
	for _, c := range store.Collections {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`TRUNCATE %s`, c)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) missOrConflict(ctx context.Context, t string, id ids.ID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)
	`, t), id.String()).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

// encodeDoc serializa m sin "_id" (vive en la columna id).
func encodeDoc(m map[string]any) ([]byte, error) {
	clean := bson.M{}
	for k, v := range m {
		if k == store.IDField {
			continue
		}
		clean[k] = v
	}
	b, err := bson.MarshalExtJSON(clean, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// encodeValue serializa un valor suelto; ext-JSON solo acepta documentos
// top-level, así que se envuelve y se extrae.
func encodeValue(v any) ([]byte, error) {
	b, err := bson.MarshalExtJSON(bson.M{"v": v}, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return nil, err
	}
	return wrapper["v"], nil
}

func decodeDoc(id string, raw []byte) (store.Document, error) {
	var m bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &m); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	d := store.NormalizeDocument(m)
	if d == nil {
		d = store.Document{}
	}

	parsed, err := ids.Parse(id)
	if err != nil {
		return nil, err
	}
	d[store.IDField] = parsed
	return d, nil
}

func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
