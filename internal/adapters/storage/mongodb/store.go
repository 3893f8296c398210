package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Open conecta a MongoDB, verifica con ping y crea los índices únicos.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(3*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes crea los índices de store.UniqueFields. Es idempotente.
// El índice es parcial: solo indexa documentos donde el campo es string.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for c, fields := range store.UniqueFields {
		for _, f := range fields {
			_, err := s.db.Collection(string(c)).Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys: bson.D{{Key: f, Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{f: bson.M{"$type": "string"}}),
			})
			if err != nil {
				return fmt.Errorf("mongo index %s.%s: %w", c, f, err)
			}
		}
	}
	return nil
}

func (s *Store) coll(c store.Collection) (*mongo.Collection, error) {
	if !store.Known(c) {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, c)
	}
	return s.db.Collection(string(c)), nil
}

func (s *Store) Create(ctx context.Context, c store.Collection, doc store.Document) (ids.ID, error) {
	coll, err := s.coll(c)
	if err != nil {
		return ids.ID{}, err
	}

	d := toBSON(doc)
	id := doc.ID()
	if id.IsZero() {
		id = ids.New()
	}
	d[store.IDField] = id

	if _, err := coll.InsertOne(ctx, d); err != nil {
		return ids.ID{}, mapWriteErr(err)
	}
	return id, nil
}

func (s *Store) FindByID(ctx context.Context, c store.Collection, id ids.ID) (store.Document, error) {
	coll, err := s.coll(c)
	if err != nil {
		return nil, err
	}

	var m bson.M
	if err := coll.FindOne(ctx, bson.M{store.IDField: id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return store.NormalizeDocument(m), nil
}

func (s *Store) FindAll(ctx context.Context, c store.Collection, f store.Filter) ([]store.Document, error) {
	coll, err := s.coll(c)
	if err != nil {
		return nil, err
	}

	// orden natural por _id (ObjectID crece con el tiempo de inserción)
	cur, err := coll.Find(ctx, toBSON(f), options.Find().SetSort(bson.D{{Key: store.IDField, Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}

	out := make([]store.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, store.NormalizeDocument(m))
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, c store.Collection, id ids.ID, p store.Patch) (store.Document, error) {
	return s.UpdateIf(ctx, c, id, nil, p)
}

func (s *Store) UpdateIf(ctx context.Context, c store.Collection, id ids.ID, cond store.Filter, p store.Patch) (store.Document, error) {
	coll, err := s.coll(c)
	if err != nil {
		return nil, err
	}

	set := toBSON(p)
	delete(set, store.IDField)

	filter := toBSON(cond)
	filter[store.IDField] = id

	if len(set) == 0 {
		// $set vacío es inválido en Mongo; solo evaluamos la condición.
		var m bson.M
		err := coll.FindOne(ctx, filter).Decode(&m)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.missOrConflict(ctx, coll, id)
		}
		if err != nil {
			return nil, err
		}
		return store.NormalizeDocument(m), nil
	}

	return s.findOneAndUpdate(ctx, coll, id, filter, bson.M{"$set": set})
}

func (s *Store) Push(ctx context.Context, c store.Collection, id ids.ID, field string, value any) (store.Document, error) {
	coll, err := s.coll(c)
	if err != nil {
		return nil, err
	}
	return s.findOneAndUpdate(ctx, coll, id, bson.M{store.IDField: id}, bson.M{"$push": bson.M{field: value}})
}

func (s *Store) Delete(ctx context.Context, c store.Collection, id ids.ID) error {
	coll, err := s.coll(c)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{store.IDField: id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop elimina la base completa (tests de integración).
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) findOneAndUpdate(ctx context.Context, coll *mongo.Collection, id ids.ID, filter, update bson.M) (store.Document, error) {
	var m bson.M
	err := coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.missOrConflict(ctx, coll, id)
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return store.NormalizeDocument(m), nil
}

// missOrConflict distingue "no existe" de "existe pero no cumple la condición".
func (s *Store) missOrConflict(ctx context.Context, coll *mongo.Collection, id ids.ID) error {
	n, err := coll.CountDocuments(ctx, bson.M{store.IDField: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func toBSON(m map[string]any) bson.M {
	out := bson.M{}
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}
