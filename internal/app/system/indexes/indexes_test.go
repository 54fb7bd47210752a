package indexes_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Aashi1109/contacts-api/internal/app/system/indexes"
	"github.com/Aashi1109/contacts-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, coll *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	users := indexNames(t, ctx, db.Collection("users"))
	for _, name := range []string{indexes.IdxUsersFirstNameCI, indexes.IdxUsersLastNameCI} {
		if !users[name] {
			t.Errorf("users index %q missing", name)
		}
	}

	infos := indexNames(t, ctx, db.Collection("contact_infos"))
	for _, name := range []string{indexes.UniqContactInfosNumber, indexes.IdxContactInfosUser} {
		if !infos[name] {
			t.Errorf("contact_infos index %q missing", name)
		}
	}
}

func TestEnsureAll_RenamesExistingIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys, wrong name.
	_, err := db.Collection("contact_infos").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("number_1_legacy"),
	})
	if err != nil {
		t.Fatalf("seed index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db.Collection("contact_infos"))
	if names["number_1_legacy"] {
		t.Error("legacy index should have been replaced")
	}
	if !names[indexes.UniqContactInfosNumber] {
		t.Error("expected uniq_contact_infos_number")
	}
}

func TestEnsureAll_DuplicateNumbersReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("contact_infos")
	for i := 0; i < 2; i++ {
		if _, err := coll.InsertOne(ctx, bson.M{"number": "123456"}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	err := indexes.EnsureAll(ctx, db)
	if err == nil {
		t.Fatal("expected error when duplicates exist")
	}
	if !strings.Contains(err.Error(), "duplicates present") {
		t.Errorf("error = %v", err)
	}
}
