package contactinfostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding contact infos.
const Collection = "contact_infos"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// NewInfo describes a contact info to insert. A nil StdCode or empty Label
// falls back to models.DefaultStdCode and models.LabelOther.
type NewInfo struct {
	Number  string
	StdCode *int
	Label   models.Label
}

// CreateMany inserts all infos for userID in one batch and returns them
// as stored. A duplicate number anywhere in the collection fails the
// batch with a duplicate key error; infos inserted before the failure
// are removed again so the call is all or nothing.
func (s *Store) CreateMany(ctx context.Context, userID primitive.ObjectID, infos []NewInfo) ([]models.ContactInfo, error) {
	if len(infos) == 0 {
		return []models.ContactInfo{}, nil
	}

	now := time.Now().UTC()
	out := make([]models.ContactInfo, len(infos))
	docs := make([]interface{}, len(infos))
	for i, n := range infos {
		ci := models.ContactInfo{
			ID:        primitive.NewObjectID(),
			Number:    strings.TrimSpace(n.Number),
			StdCode:   models.DefaultStdCode,
			Label:     models.LabelOther,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if n.StdCode != nil {
			ci.StdCode = *n.StdCode
		}
		if n.Label != "" {
			ci.Label = n.Label
		}
		out[i] = ci
		docs[i] = ci
	}

	if _, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		ids := make([]primitive.ObjectID, len(out))
		for i := range out {
			ids[i] = out[i].ID
		}
		// Ordered insert stops at the first failure; drop whatever made it in.
		_, _ = s.c.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}})
		return nil, err
	}
	return out, nil
}

// GetByID loads a contact info by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContactInfo, error) {
	var ci models.ContactInfo
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// Update holds the contact info fields that can change. Nil fields are left alone.
type Update struct {
	Number  *string
	StdCode *int
	Label   *models.Label
}

// Update applies the non-nil fields of upd and returns the document after
// the change. Returns mongo.ErrNoDocuments if id does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.ContactInfo, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Number != nil {
		set["number"] = strings.TrimSpace(*upd.Number)
	}
	if upd.StdCode != nil {
		set["std_code"] = *upd.StdCode
	}
	if upd.Label != nil {
		set["label"] = *upd.Label
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ci models.ContactInfo
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// Delete removes the info only if it belongs to userID and returns the
// removed document. Returns mongo.ErrNoDocuments otherwise.
func (s *Store) Delete(ctx context.Context, id, userID primitive.ObjectID) (*models.ContactInfo, error) {
	var ci models.ContactInfo
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// DeleteByUser removes every info owned by userID and returns how many went.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAll removes every contact info. Used by the seeder's clear option.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// NumbersInUse returns the subset of numbers already stored for any user.
func (s *Store) NumbersInUse(ctx context.Context, numbers []string) ([]string, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	raw, err := s.c.Distinct(ctx, "number", bson.M{"number": bson.M{"$in": numbers}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(string); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Filter narrows Find. Zero fields do not filter, with one exception:
// a non-nil but empty UserIDs matches nothing.
type Filter struct {
	IDs     []primitive.ObjectID
	UserIDs []primitive.ObjectID
	Number  string // substring, matched literally
	Limit   int64
	Skip    int64
}

func (f Filter) match() bson.M {
	m := bson.M{}
	if len(f.IDs) > 0 {
		m["_id"] = bson.M{"$in": f.IDs}
	}
	if f.UserIDs != nil {
		m["user_id"] = bson.M{"$in": f.UserIDs}
	}
	if n := strings.TrimSpace(f.Number); n != "" {
		m["number"] = primitive.Regex{Pattern: regexp.QuoteMeta(n), Options: "i"}
	}
	return m
}

// Find returns the infos matching f in _id order, each joined with its
// owning user.
func (s *Store) Find(ctx context.Context, f Filter) ([]models.ContactInfoWithUser, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: f.match()}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if f.Skip > 0 {
		pipe = append(pipe, bson.D{{Key: "$skip", Value: f.Skip}})
	}
	if f.Limit > 0 {
		pipe = append(pipe, bson.D{{Key: "$limit", Value: f.Limit}})
	}
	pipe = append(pipe,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userstore.Collection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$user",
			"preserveNullAndEmptyArrays": true,
		}}},
	)

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ContactInfoWithUser{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the infos owned by userID in _id order.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ContactInfo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ContactInfo{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
