// Package mongodb is the document-store backend. Collections mirror the
// resources: users, authors, genres and books, keyed by ObjectID.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/geocoder89/bookapi/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	authorsCollection = "authors"
	genresCollection  = "genres"
	booksCollection   = "books"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	prom   *observability.Prom
}

// Connect dials uri and verifies the primary is reachable. prom may be nil.
func Connect(ctx context.Context, uri, dbName string, prom *observability.Prom) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(dbName),
		prom:   prom,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes that back the natural-key
// conflict checks. Creating an existing index is a no-op.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_1"),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection:   {unique("username"), unique("email")},
		authorsCollection: {unique("fullName")},
		genresCollection:  {unique("name")},
		booksCollection: {
			unique("title"),
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := c.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (c *Client) Repositories() repo.Repositories {
	return repo.Repositories{
		Users:   &UsersRepo{coll: c.db.Collection(usersCollection), prom: c.prom},
		Authors: &AuthorsRepo{coll: c.db.Collection(authorsCollection), prom: c.prom},
		Genres:  &GenresRepo{coll: c.db.Collection(genresCollection), prom: c.prom},
		Books:   &BooksRepo{coll: c.db.Collection(booksCollection), prom: c.prom},
		Ping:    c.Ping,
		Close:   c.Close,
	}
}

// objectID parses a hex id. Malformed ids can never match a document, so
// callers map the error to their not-found sentinel.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func exists(ctx context.Context, coll *mongo.Collection, filter bson.D) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
