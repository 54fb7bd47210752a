package validators_test

import (
	"testing"

	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/validators"
	"github.com/Aashi1109/contacts-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "contact_infos"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	users := db.Collection("users")

	tests := []struct {
		name    string
		doc     bson.M
		wantErr bool
	}{
		{"valid", bson.M{"firstname": "Ada", "firstname_ci": "ada", "lastname": "", "image": nil}, false},
		{"missing firstname", bson.M{"lastname": "Lovelace"}, true},
		{"blank firstname", bson.M{"firstname": "   ", "firstname_ci": "   "}, true},
		{"image wrong type", bson.M{"firstname": "Ada", "firstname_ci": "ada", "image": 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperr.Translate(err).Message != "Validation Error" {
				t.Errorf("translated message = %q", apperr.Translate(err).Message)
			}
		})
	}
}

func TestContactInfosValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	infos := db.Collection("contact_infos")
	owner := primitive.NewObjectID()

	tests := []struct {
		name    string
		doc     bson.M
		wantErr bool
	}{
		{"valid", bson.M{"number": "12345", "std_code": 91, "label": "HOME", "user_id": owner}, false},
		{"bad label", bson.M{"number": "12346", "std_code": 91, "label": "PAGER", "user_id": owner}, true},
		{"missing user", bson.M{"number": "12347", "std_code": 91, "label": "HOME"}, true},
		{"string std_code", bson.M{"number": "12348", "std_code": "91", "label": "HOME", "user_id": owner}, true},
		{"user id as string", bson.M{"number": "12349", "std_code": 1, "label": "WORK", "user_id": owner.Hex()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := infos.InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
