package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

// SessionStorage keeps the persisted session record as one document whose
// _id is the configured key.
type SessionStorage struct {
	coll *mongo.Collection
	key  string
}

func NewSessionStorage(db *mongo.Database, key string) *SessionStorage {
	return &SessionStorage{coll: db.Collection(sessionCollection), key: key}
}

type sessionDocument struct {
	Key       string `bson:"_id"`
	Payload   string `bson:"payload"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *SessionStorage) Load(ctx context.Context) ([]byte, error) {
	var doc sessionDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return []byte(doc.Payload), nil
}

func (s *SessionStorage) Save(ctx context.Context, payload []byte) error {
	doc := sessionDocument{
		Key:       s.key,
		Payload:   string(payload),
		UpdatedAt: time.Now().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.key}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
