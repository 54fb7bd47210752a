package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the returned request adds to the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given names.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		FirstNameCI: text.Fold(firstName),
		LastName:    lastName,
		LastNameCI:  text.Fold(lastName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateContactInfo inserts a contact info owned by userID with the
// default dialing code.
func (f *Fixtures) CreateContactInfo(ctx context.Context, userID primitive.ObjectID, number string, label models.Label) models.ContactInfo {
	f.t.Helper()

	now := time.Now().UTC()
	ci := models.ContactInfo{
		ID:        primitive.NewObjectID(),
		Number:    number,
		StdCode:   models.DefaultStdCode,
		Label:     label,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("contact_infos").InsertOne(ctx, ci); err != nil {
		f.t.Fatalf("failed to create test contact info: %v", err)
	}
	return ci
}
