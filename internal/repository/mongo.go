package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	cohortsCollection  = "cohorts"
	studentsCollection = "students"
)

// ConnectMongo opens a client for uri and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoStore builds a Store backed by db and ensures the unique indexes
// the stores rely on exist.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	client := db.Client()
	return &Store{
		Users:    NewMongoUserRepository(db),
		Cohorts:  NewMongoCohortRepository(db),
		Students: NewMongoStudentRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection:    {unique("email")},
		cohortsCollection:  {unique("cohortSlug")},
		studentsCollection: {unique("email"), unique("phone"), {Keys: bson.D{{Key: "cohort", Value: 1}}}},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}

// parseObjectID returns ok=false for ids that cannot name a document.
func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
