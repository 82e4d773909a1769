package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type authorDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	FullName    string             `bson:"fullName"`
	Image       string             `bson:"image,omitempty"`
	Nationality string             `bson:"nationality,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d authorDoc) toDomain() author.Author {
	return author.Author{
		ID:          d.ID.Hex(),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		FullName:    d.FullName,
		Image:       d.Image,
		Nationality: d.Nationality,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type AuthorsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func (r *AuthorsRepo) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("authors.exists_by_full_name", func() error {
		var err error
		found, err = exists(ctx, r.coll, bson.D{{Key: "fullName", Value: fullName}})
		return err
	})
	return found, err
}

func (r *AuthorsRepo) Create(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error) {
	a := author.NewFromCreateRequest(req)
	oid, _ := objectID(a.ID)

	doc := authorDoc{
		ID:          oid,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName,
		Image:       a.Image,
		Nationality: a.Nationality,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	err := r.prom.ObserveDB("authors.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return author.Author{}, author.ErrAlreadyExists
		}
		return author.Author{}, err
	}
	return a, nil
}

func (r *AuthorsRepo) List(ctx context.Context) ([]author.Author, error) {
	out := make([]author.Author, 0)

	err := r.prom.ObserveDB("authors.list", func() error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc authorDoc
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

func (r *AuthorsRepo) GetByID(ctx context.Context, id string) (author.Author, error) {
	oid, ok := objectID(id)
	if !ok {
		return author.Author{}, author.ErrNotFound
	}

	var doc authorDoc
	err := r.prom.ObserveDB("authors.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return author.Author{}, author.ErrNotFound
		}
		return author.Author{}, err
	}
	return doc.toDomain(), nil
}

// Update runs as a pipeline so fullName is recomputed from the stored
// names after the partial set is applied.
func (r *AuthorsRepo) Update(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error) {
	oid, ok := objectID(id)
	if !ok {
		return author.Author{}, author.ErrNotFound
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: authorSet(req)}},
		{{Key: "$set", Value: bson.D{
			{Key: "fullName", Value: bson.D{{Key: "$concat", Value: bson.A{"$firstName", " ", "$lastName"}}}},
		}}},
	}

	var doc authorDoc
	err := r.prom.ObserveDB("authors.update", func() error {
		return r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, afterUpdate()).Decode(&doc)
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return author.Author{}, author.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return author.Author{}, author.ErrAlreadyExists
		}
		return author.Author{}, err
	}
	return doc.toDomain(), nil
}

func authorSet(req author.UpdateAuthorRequest) bson.D {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}

	if req.FirstName != nil {
		set = append(set, bson.E{Key: "firstName", Value: literal(*req.FirstName)})
	}
	if req.LastName != nil {
		set = append(set, bson.E{Key: "lastName", Value: literal(*req.LastName)})
	}
	if req.Image != nil {
		set = append(set, bson.E{Key: "image", Value: literal(*req.Image)})
	}
	if req.Nationality != nil {
		set = append(set, bson.E{Key: "nationality", Value: literal(*req.Nationality)})
	}
	return set
}

// literal keeps user text from being read as a field path inside a
// pipeline update.
func literal(v string) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

func (r *AuthorsRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.prom, r.coll, "authors.delete", id, author.ErrNotFound)
}

func deleteByID(ctx context.Context, prom *observability.Prom, coll *mongo.Collection, op, id string, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}

	var res *mongo.DeleteResult
	err := prom.ObserveDB(op, func() error {
		var err error
		res, err = coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		return err
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
