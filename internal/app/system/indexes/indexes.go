// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Index names other packages and tests refer to.
const (
	UniqContactInfosNumber = "uniq_contact_infos_number"
	IdxContactInfosUser    = "idx_contact_infos_user_id"
	IdxUsersFirstNameCI    = "idx_users_firstname_ci"
	IdxUsersLastNameCI     = "idx_users_lastname_ci"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureContactInfos(ctx, db); err != nil {
		problems = append(problems, "contact_infos: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Name search matches on the folded fields.
		{
			Keys:    bson.D{{Key: "firstname_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName(IdxUsersFirstNameCI),
		},
		{
			Keys:    bson.D{{Key: "lastname_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName(IdxUsersLastNameCI),
		},
	})
}

func ensureContactInfos(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("contact_infos"), []mongo.IndexModel{
		// A phone number belongs to at most one contact, across all users.
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(UniqContactInfosNumber),
		},
		// Grouping, cascade delete and ownership checks.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName(IdxContactInfosUser),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

type desired struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func describe(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique != nil && *m.Options.Unique
	}
	return d
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		d := describe(m)
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.unique))

		ex, found := listIndexes(ctx, coll)[d.sig]
		switch {
		case found && isUnique(ex.Unique) == d.unique && (d.name == "" || ex.Name == d.name):
			log.Debug("reusing existing index")
			continue
		case found:
			// Same keys under another name or with other options: replace it.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), d.name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
			if isOptionsConflictErr(err) {
				log.Warn("index options conflict", zap.Error(err))
			}
			errs = append(errs, createError(coll.Name(), d, err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func createError(coll string, d desired, err error) string {
	if d.unique && mongo.IsDuplicateKeyError(err) {
		helper := ""
		if coll == "contact_infos" && d.sig == "number:1" {
			helper = ". Example finder: " +
				`db.contact_infos.aggregate([{ $group: { _id: "$number", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
		}
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll, d.name, helper)
	}
	return fmt.Sprintf("%s(%s): %v", coll, d.name, err)
}
