package contacts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	errorsfeature "github.com/Aashi1109/contacts-api/internal/app/features/errors"
	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.User
	order []primitive.ObjectID

	createErr error
	deleted   []primitive.ObjectID

	// lookupBudget is the time left on the context of the last GetByID.
	lookupBudget time.Duration
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	u.ID = primitive.NewObjectID()
	f.byID[u.ID] = u
	f.order = append(f.order, u.ID)
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupBudget = budget(ctx)
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (f *fakeUsers) Update(ctx context.Context, id primitive.ObjectID, upd userstore.Update) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	if upd.Image != nil {
		u.Image = upd.Image
	}
	f.byID[id] = u
	return &u, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return &u, nil
}

func (f *fakeUsers) IDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name = strings.ToLower(name)
	var out []primitive.ObjectID
	for _, id := range f.order {
		u, ok := f.byID[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), name) || strings.Contains(strings.ToLower(u.LastName), name) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeUsers) add(first, last string) models.User {
	u, _ := f.Create(context.Background(), models.User{FirstName: first, LastName: last})
	return u
}

func (f *fakeUsers) lookup(id primitive.ObjectID) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil
	}
	return &u
}

// fakeInfos is an in-memory ContactInfoStore. It enforces global number
// uniqueness the way the unique index does and records every call.
type fakeInfos struct {
	mu    sync.Mutex
	infos []models.ContactInfo
	users *fakeUsers

	calls      []string
	lastFilter contactinfostore.Filter
	findErr    error

	lookupBudget time.Duration
}

func newFakeInfos(users *fakeUsers) *fakeInfos {
	return &fakeInfos{users: users}
}

func (f *fakeInfos) record(call string) {
	f.calls = append(f.calls, call)
}

func dupKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: test.contact_infos index: uniq_contact_infos_number dup key: { number: "1" }`,
	}}}
}

func (f *fakeInfos) indexOf(id primitive.ObjectID) int {
	for i, ci := range f.infos {
		if ci.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeInfos) numberTaken(n string, except primitive.ObjectID) bool {
	for _, ci := range f.infos {
		if ci.Number == n && ci.ID != except {
			return true
		}
	}
	return false
}

func (f *fakeInfos) CreateMany(ctx context.Context, userID primitive.ObjectID, infos []contactinfostore.NewInfo) ([]models.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateMany")

	out := []models.ContactInfo{}
	seen := map[string]bool{}
	for _, n := range infos {
		if seen[n.Number] || f.numberTaken(n.Number, primitive.NilObjectID) {
			return nil, dupKeyError()
		}
		seen[n.Number] = true
		ci := models.ContactInfo{
			ID:      primitive.NewObjectID(),
			Number:  n.Number,
			StdCode: models.DefaultStdCode,
			Label:   models.LabelOther,
			UserID:  userID,
		}
		if n.StdCode != nil {
			ci.StdCode = *n.StdCode
		}
		if n.Label != "" {
			ci.Label = n.Label
		}
		out = append(out, ci)
	}
	f.infos = append(f.infos, out...)
	return out, nil
}

func (f *fakeInfos) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")
	f.lookupBudget = budget(ctx)
	i := f.indexOf(id)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}
	ci := f.infos[i]
	return &ci, nil
}

func (f *fakeInfos) Update(ctx context.Context, id primitive.ObjectID, upd contactinfostore.Update) (*models.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Update")
	i := f.indexOf(id)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}
	ci := f.infos[i]
	if upd.Number != nil {
		if f.numberTaken(*upd.Number, id) {
			return nil, dupKeyError()
		}
		ci.Number = *upd.Number
	}
	if upd.StdCode != nil {
		ci.StdCode = *upd.StdCode
	}
	if upd.Label != nil {
		ci.Label = *upd.Label
	}
	f.infos[i] = ci
	return &ci, nil
}

func (f *fakeInfos) Delete(ctx context.Context, id, userID primitive.ObjectID) (*models.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Delete")
	i := f.indexOf(id)
	if i < 0 || f.infos[i].UserID != userID {
		return nil, mongo.ErrNoDocuments
	}
	ci := f.infos[i]
	f.infos = append(f.infos[:i], f.infos[i+1:]...)
	return &ci, nil
}

func (f *fakeInfos) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteByUser")
	kept := f.infos[:0]
	var n int64
	for _, ci := range f.infos {
		if ci.UserID == userID {
			n++
			continue
		}
		kept = append(kept, ci)
	}
	f.infos = kept
	return n, nil
}

func (f *fakeInfos) NumbersInUse(ctx context.Context, numbers []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("NumbersInUse")
	var out []string
	for _, n := range numbers {
		if f.numberTaken(n, primitive.NilObjectID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeInfos) Find(ctx context.Context, flt contactinfostore.Filter) ([]models.ContactInfoWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Find")
	f.lastFilter = flt
	if f.findErr != nil {
		return nil, f.findErr
	}

	contains := func(ids []primitive.ObjectID, id primitive.ObjectID) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}

	var matched []models.ContactInfo
	for _, ci := range f.infos {
		if len(flt.IDs) > 0 && !contains(flt.IDs, ci.ID) {
			continue
		}
		if flt.UserIDs != nil && !contains(flt.UserIDs, ci.UserID) {
			continue
		}
		if flt.Number != "" && !strings.Contains(ci.Number, flt.Number) {
			continue
		}
		matched = append(matched, ci)
	}
	if flt.Skip > 0 {
		if flt.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[flt.Skip:]
		}
	}
	if flt.Limit > 0 && flt.Limit < int64(len(matched)) {
		matched = matched[:flt.Limit]
	}

	out := []models.ContactInfoWithUser{}
	for _, ci := range matched {
		out = append(out, models.ContactInfoWithUser{ContactInfo: ci, User: f.users.lookup(ci.UserID)})
	}
	return out, nil
}

func (f *fakeInfos) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListByUser")
	out := []models.ContactInfo{}
	for _, ci := range f.infos {
		if ci.UserID == userID {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (f *fakeInfos) add(userID primitive.ObjectID, number string) models.ContactInfo {
	out, err := f.CreateMany(context.Background(), userID, []contactinfostore.NewInfo{{Number: number}})
	if err != nil {
		panic(err)
	}
	f.calls = nil
	return out[0]
}

func (f *fakeInfos) numbersOf(userID primitive.ObjectID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, ci := range f.infos {
		if ci.UserID == userID {
			out = append(out, ci.Number)
		}
	}
	return out
}

// fakeUploader returns a fixed URL or error and counts calls.
type fakeUploader struct {
	url   string
	err   error
	calls int
	last  string
}

func (f *fakeUploader) Upload(ctx context.Context, image string) (string, error) {
	f.calls++
	f.last = image
	return f.url, f.err
}

type testEnv struct {
	h      *Handler
	users  *fakeUsers
	infos  *fakeInfos
	images *fakeUploader
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUsers()
	infos := newFakeInfos(users)
	images := &fakeUploader{url: "https://img.example.com/a.jpg"}
	h := NewHandler(users, infos, images, errorsfeature.NewErrorLogger(zap.NewNop(), false), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/api/contacts", Routes(h))
	return &testEnv{h: h, users: users, infos: infos, images: images, router: r}
}

var errBoom = errors.New("boom")

// budget returns the time left before ctx expires, or 0 without a deadline.
func budget(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		return time.Until(dl)
	}
	return 0
}
