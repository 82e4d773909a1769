package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/geocoder89/bookapi/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookDoc struct {
	ID        primitive.ObjectID  `bson:"_id"`
	Title     string              `bson:"title"`
	Author    primitive.ObjectID  `bson:"author"`
	Genre     *primitive.ObjectID `bson:"genre,omitempty"`
	YearPub   string              `bson:"yearPub,omitempty"`
	Image     string              `bson:"image,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func (d bookDoc) toDomain() book.Book {
	b := book.Book{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		AuthorID:  d.Author.Hex(),
		YearPub:   d.YearPub,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Genre != nil {
		b.GenreID = d.Genre.Hex()
	}
	return b
}

// detailedDoc is a book after the author and genre lookups.
type detailedDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Author    *authorDoc         `bson:"author,omitempty"`
	Genre     *genreDoc          `bson:"genre,omitempty"`
	YearPub   string             `bson:"yearPub,omitempty"`
	Image     string             `bson:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d detailedDoc) toDomain() book.Detailed {
	out := book.Detailed{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		YearPub:   d.YearPub,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Author != nil {
		a := d.Author.toDomain()
		out.Author = &a
	}
	if d.Genre != nil {
		g := d.Genre.toDomain()
		out.Genre = &g
	}
	return out
}

type BooksRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func (r *BooksRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("books.exists_by_title", func() error {
		var err error
		found, err = exists(ctx, r.coll, bson.D{{Key: "title", Value: title}})
		return err
	})
	return found, err
}

func (r *BooksRepo) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	authorID, ok := objectID(req.Author)
	if !ok {
		return book.Book{}, errors.New("author must be an object id")
	}

	b := book.NewFromCreateRequest(req)
	oid, _ := objectID(b.ID)

	doc := bookDoc{
		ID:        oid,
		Title:     b.Title,
		Author:    authorID,
		YearPub:   b.YearPub,
		Image:     b.Image,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if req.Genre != "" {
		genreID, ok := objectID(req.Genre)
		if !ok {
			return book.Book{}, errors.New("genre must be an object id")
		}
		doc.Genre = &genreID
	}

	err := r.prom.ObserveDB("books.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return book.Book{}, book.ErrTitleTaken
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BooksRepo) List(ctx context.Context, filter book.ListFilter) ([]book.Detailed, error) {
	return r.aggregate(ctx, "books.list", buildListPipeline(filter))
}

func (r *BooksRepo) GetByID(ctx context.Context, id string) (book.Detailed, error) {
	oid, ok := objectID(id)
	if !ok {
		return book.Detailed{}, book.ErrNotFound
	}

	found, err := r.aggregate(ctx, "books.get_by_id", buildGetPipeline(oid))
	if err != nil {
		return book.Detailed{}, err
	}
	if len(found) == 0 {
		return book.Detailed{}, book.ErrNotFound
	}
	return found[0], nil
}

func (r *BooksRepo) aggregate(ctx context.Context, op string, pipeline mongo.Pipeline) ([]book.Detailed, error) {
	out := make([]book.Detailed, 0)

	err := r.prom.ObserveDB(op, func() error {
		cur, err := r.coll.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc detailedDoc
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

func (r *BooksRepo) Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error) {
	oid, ok := objectID(id)
	if !ok {
		return book.Book{}, book.ErrNotFound
	}

	update, err := bookUpdate(req)
	if err != nil {
		return book.Book{}, err
	}

	var doc bookDoc
	err = r.prom.ObserveDB("books.update", func() error {
		return r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, afterUpdate()).Decode(&doc)
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return book.Book{}, book.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return book.Book{}, book.ErrTitleTaken
		}
		return book.Book{}, err
	}
	return doc.toDomain(), nil
}

// bookUpdate turns a partial request into $set/$unset. An empty genre
// removes the reference.
func bookUpdate(req book.UpdateBookRequest) (bson.D, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	var unset bson.D

	if req.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *req.Title})
	}
	if req.Author != nil {
		oid, ok := objectID(*req.Author)
		if !ok {
			return nil, errors.New("author must be an object id")
		}
		set = append(set, bson.E{Key: "author", Value: oid})
	}
	if req.Genre != nil {
		if *req.Genre == "" {
			unset = append(unset, bson.E{Key: "genre", Value: ""})
		} else {
			oid, ok := objectID(*req.Genre)
			if !ok {
				return nil, errors.New("genre must be an object id")
			}
			set = append(set, bson.E{Key: "genre", Value: oid})
		}
	}
	if req.YearPub != nil {
		set = append(set, bson.E{Key: "yearPub", Value: *req.YearPub})
	}
	if req.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *req.Image})
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update, nil
}

func (r *BooksRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.prom, r.coll, "books.delete", id, book.ErrNotFound)
}

var sortKeys = map[book.SortField]string{
	book.SortTitle:     "title",
	book.SortYearPub:   "yearPub",
	book.SortCreatedAt: "createdAt",
	book.SortUpdatedAt: "updatedAt",
	book.SortAuthor:    "author.fullName",
	book.SortGenre:     "genre.name",
}

// lookupStage replaces the reference in field with the matching
// documents from the from collection.
func lookupStage(from, field string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: field},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: field},
	}}}
}

func unwindStage(field string, keepMissing bool) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: keepMissing},
	}}}
}

// buildListPipeline joins authors (required) and genres (optional), then
// applies the literal, case-insensitive substring filters and the sort.
func buildListPipeline(f book.ListFilter) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		lookupStage(authorsCollection, "author"),
		unwindStage("author", false),
		lookupStage(genresCollection, "genre"),
		unwindStage("genre", true),
	}

	var match bson.D
	if f.Title != "" {
		match = append(match, bson.E{Key: "title", Value: containsPattern(f.Title)})
	}
	if f.Author != "" {
		match = append(match, bson.E{Key: "author.fullName", Value: containsPattern(f.Author)})
	}
	if f.Genre != "" {
		match = append(match, bson.E{Key: "genre.name", Value: containsPattern(f.Genre)})
	}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	sort := bson.D{{Key: "_id", Value: 1}}
	if key, ok := sortKeys[f.SortBy]; ok {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
	}

	return append(pipeline, bson.D{{Key: "$sort", Value: sort}})
}

func buildGetPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		lookupStage(authorsCollection, "author"),
		unwindStage("author", true),
		lookupStage(genresCollection, "genre"),
		unwindStage("genre", true),
	}
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
