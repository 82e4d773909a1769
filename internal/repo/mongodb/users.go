package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password"`
	Token        string             `bson:"token,omitempty"`
	RefreshToken string             `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d userDoc) toDomain() user.User {
	return user.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Token:        d.Token,
		RefreshToken: d.RefreshToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func (r *UsersRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (user.User, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}
	return r.findOne(ctx, "users.find_by_username_or_email", filter)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.findOne(ctx, "users.get_by_username", bson.D{{Key: "username", Value: username}})
}

func (r *UsersRepo) findOne(ctx context.Context, op string, filter bson.D) (user.User, error) {
	var doc userDoc

	err := r.prom.ObserveDB(op, func() error {
		return r.coll.FindOne(ctx, filter).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.prom.ObserveDB("users.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, duplicateUserErr(err)
		}
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

const emailIndex = "email_1"

var dupKeyIndex = regexp.MustCompile(`index: (\S+) dup key`)

// duplicateUserErr picks the sentinel from the name of the violated index,
// never from the duplicated value.
func duplicateUserErr(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 && violatedIndex(e.Message) == emailIndex {
				return user.ErrEmailTaken
			}
		}
		return user.ErrUsernameTaken
	}

	if violatedIndex(err.Error()) == emailIndex {
		return user.ErrEmailTaken
	}
	return user.ErrUsernameTaken
}

func violatedIndex(msg string) string {
	m := dupKeyIndex.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	return m[1]
}

func (r *UsersRepo) UpdateTokens(ctx context.Context, id, token, refreshToken string) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "token", Value: token},
		{Key: "refreshToken", Value: refreshToken},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	var res *mongo.UpdateResult
	err := r.prom.ObserveDB("users.update_tokens", func() error {
		var err error
		res, err = r.coll.UpdateByID(ctx, oid, update)
		return err
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}
