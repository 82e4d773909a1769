package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type genreDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d genreDoc) toDomain() genre.Genre {
	return genre.Genre{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type GenresRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func (r *GenresRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("genres.exists_by_name", func() error {
		var err error
		found, err = exists(ctx, r.coll, bson.D{{Key: "name", Value: name}})
		return err
	})
	return found, err
}

func (r *GenresRepo) Create(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error) {
	g := genre.NewFromCreateRequest(req)
	oid, _ := objectID(g.ID)

	doc := genreDoc{
		ID:          oid,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	err := r.prom.ObserveDB("genres.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return genre.Genre{}, genre.ErrAlreadyExists
		}
		return genre.Genre{}, err
	}
	return g, nil
}

func (r *GenresRepo) List(ctx context.Context) ([]genre.Genre, error) {
	out := make([]genre.Genre, 0)

	err := r.prom.ObserveDB("genres.list", func() error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc genreDoc
			if err := cur.Decode(&doc); err != nil {
				return err
			}
			out = append(out, doc.toDomain())
		}
		return cur.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GenresRepo) GetByID(ctx context.Context, id string) (genre.Genre, error) {
	oid, ok := objectID(id)
	if !ok {
		return genre.Genre{}, genre.ErrNotFound
	}

	var doc genreDoc
	err := r.prom.ObserveDB("genres.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return genre.Genre{}, genre.ErrNotFound
		}
		return genre.Genre{}, err
	}
	return doc.toDomain(), nil
}

func (r *GenresRepo) Update(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error) {
	oid, ok := objectID(id)
	if !ok {
		return genre.Genre{}, genre.ErrNotFound
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if req.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *req.Description})
	}

	var doc genreDoc
	err := r.prom.ObserveDB("genres.update", func() error {
		return r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, afterUpdate()).Decode(&doc)
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return genre.Genre{}, genre.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return genre.Genre{}, genre.ErrAlreadyExists
		}
		return genre.Genre{}, err
	}
	return doc.toDomain(), nil
}

func (r *GenresRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.prom, r.coll, "genres.delete", id, genre.ErrNotFound)
}
