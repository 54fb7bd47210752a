package userstore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding users.
const Collection = "users"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create assigns an ID, fills the folded name fields and timestamps, and inserts u.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.FirstNameCI = text.Fold(u.FirstName)
	u.LastNameCI = text.Fold(u.LastName)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update holds the user fields that can change. Nil fields are left alone.
type Update struct {
	FirstName *string
	LastName  *string
	Address   *string
	Image     *string
}

// Update applies the non-nil fields of upd and returns the stored document
// after the change. Returns mongo.ErrNoDocuments if the user does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FirstName != nil {
		name := strings.TrimSpace(*upd.FirstName)
		set["firstname"] = name
		set["firstname_ci"] = text.Fold(name)
	}
	if upd.LastName != nil {
		name := strings.TrimSpace(*upd.LastName)
		set["lastname"] = name
		set["lastname_ci"] = text.Fold(name)
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a user and returns the removed document.
// Returns mongo.ErrNoDocuments if the user does not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// IDsByName returns the ids of users whose first or last name contains
// name. Matching is case and diacritic insensitive; name is matched
// literally, not as a pattern.
func (s *Store) IDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	q := text.Fold(strings.TrimSpace(name))
	if q == "" {
		return nil, nil
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"firstname_ci": re},
		bson.M{"lastname_ci": re},
	}}

	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// Count returns the number of stored users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// DeleteAll removes every user. Used by the seeder's clear option.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
