package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditEntry is one order lifecycle event kept outside the relational store.
type AuditEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID   string    `bson:"order_id" json:"orderId"`
	OrderCode string    `bson:"order_code" json:"orderCode"`
	Action    string    `bson:"action" json:"action"`
	Status    string    `bson:"status,omitempty" json:"status,omitempty"`
	ActorID   string    `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	ActorRole string    `bson:"actor_role,omitempty" json:"actorRole,omitempty"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Data      bson.M    `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByOrder(ctx context.Context, orderID string, limit int64) ([]*AuditEntry, error)
	Close(ctx context.Context) error
}

type MongoAuditRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoAuditRepository(uri, database, collection string) (*MongoAuditRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoAuditRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (m *MongoAuditRepository) Record(ctx context.Context, entry *AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := m.collection.InsertOne(ctx, entry)
	return err
}

func (m *MongoAuditRepository) ListByOrder(ctx context.Context, orderID string, limit int64) ([]*AuditEntry, error) {
	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *MongoAuditRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// NoopAuditRepository is used when no MongoDB is configured.
type NoopAuditRepository struct{}

func (NoopAuditRepository) Record(context.Context, *AuditEntry) error { return nil }

func (NoopAuditRepository) ListByOrder(context.Context, string, int64) ([]*AuditEntry, error) {
	return []*AuditEntry{}, nil
}

func (NoopAuditRepository) Close(context.Context) error { return nil }
