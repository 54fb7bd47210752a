// Package seed fills the database with fake users and contact infos for
// local development.
package seed

import (
	"context"
	"fmt"

	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	numberPattern = "[1-9]{6,10}"
	maxStdCode    = 150

	// maxNumberAttempts bounds how often a colliding number is regenerated.
	maxNumberAttempts = 5
)

// UserWriter is the part of userstore.Store the seeder needs.
type UserWriter interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// InfoWriter is the part of contactinfostore.Store the seeder needs.
type InfoWriter interface {
	CreateMany(ctx context.Context, userID primitive.ObjectID, infos []contactinfostore.NewInfo) ([]models.ContactInfo, error)
	NumbersInUse(ctx context.Context, numbers []string) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Config controls a seeding run.
type Config struct {
	Users           int
	ContactsPerUser int
	Clear           bool // delete existing users and contact infos first
}

// Result reports what a run changed.
type Result struct {
	ClearedUsers int64
	ClearedInfos int64
	Users        int
	ContactInfos int
}

// Seeder generates fake data and writes it through the stores.
type Seeder struct {
	users UserWriter
	infos InfoWriter
	fake  *gofakeit.Faker
	log   *zap.Logger
}

// New returns a Seeder. The same seed yields the same sequence of fakes.
func New(users UserWriter, infos InfoWriter, seed uint64, log *zap.Logger) *Seeder {
	return &Seeder{users: users, infos: infos, fake: gofakeit.New(seed), log: log}
}

// Run creates cfg.Users users with cfg.ContactsPerUser contact infos each.
func (s *Seeder) Run(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	if cfg.Users < 0 || cfg.ContactsPerUser < 0 {
		return res, fmt.Errorf("seed: counts must not be negative (users=%d, contacts=%d)", cfg.Users, cfg.ContactsPerUser)
	}

	if cfg.Clear {
		n, err := s.users.DeleteAll(ctx)
		if err != nil {
			return res, fmt.Errorf("seed: clear users: %w", err)
		}
		res.ClearedUsers = n
		if n, err = s.infos.DeleteAll(ctx); err != nil {
			return res, fmt.Errorf("seed: clear contact infos: %w", err)
		}
		res.ClearedInfos = n
		s.log.Info("cleared collections",
			zap.Int64("users", res.ClearedUsers),
			zap.Int64("contact_infos", res.ClearedInfos))
	}

	for i := 0; i < cfg.Users; i++ {
		u, err := s.users.Create(ctx, s.fakeUser())
		if err != nil {
			return res, fmt.Errorf("seed: create user %d: %w", i+1, err)
		}
		res.Users++
		s.log.Info("user created",
			zap.String("user_id", u.ID.Hex()),
			zap.String("name", u.FirstName+" "+u.LastName))

		batch, err := s.uniqueInfos(ctx, cfg.ContactsPerUser)
		if err != nil {
			return res, err
		}
		created, err := s.infos.CreateMany(ctx, u.ID, batch)
		if err != nil {
			return res, fmt.Errorf("seed: create contact infos for %s: %w", u.ID.Hex(), err)
		}
		res.ContactInfos += len(created)
		for _, ci := range created {
			s.log.Debug("contact info created",
				zap.String("user_id", u.ID.Hex()),
				zap.String("number", ci.Number))
		}
	}
	return res, nil
}

// uniqueInfos generates n infos whose numbers differ from each other and
// from every stored number.
func (s *Seeder) uniqueInfos(ctx context.Context, n int) ([]contactinfostore.NewInfo, error) {
	out := make([]contactinfostore.NewInfo, n)
	for i := range out {
		out[i] = s.fakeInfo()
	}

	for attempt := 0; ; attempt++ {
		taken, err := s.infos.NumbersInUse(ctx, numbersOf(out))
		if err != nil {
			return nil, fmt.Errorf("seed: check numbers: %w", err)
		}
		clash := make(map[string]bool, len(taken))
		for _, t := range taken {
			clash[t] = true
		}

		seen := make(map[string]bool, len(out))
		redo := false
		for i := range out {
			if clash[out[i].Number] || seen[out[i].Number] {
				out[i].Number = s.fake.Regex(numberPattern)
				redo = true
			}
			seen[out[i].Number] = true
		}
		if !redo {
			return out, nil
		}
		if attempt >= maxNumberAttempts {
			return nil, fmt.Errorf("seed: could not generate %d unused numbers", n)
		}
	}
}

func numbersOf(infos []contactinfostore.NewInfo) []string {
	out := make([]string, len(infos))
	for i, ni := range infos {
		out[i] = ni.Number
	}
	return out
}

func (s *Seeder) fakeUser() models.User {
	image := fmt.Sprintf("https://avatars.githubusercontent.com/u/%d", s.fake.IntRange(1, 99999999))
	return models.User{
		FirstName: s.fake.FirstName(),
		LastName:  s.fake.LastName(),
		Address:   s.fake.Street(),
		Image:     &image,
	}
}

func (s *Seeder) fakeInfo() contactinfostore.NewInfo {
	code := s.fake.IntRange(0, maxStdCode)
	return contactinfostore.NewInfo{
		Number:  s.fake.Regex(numberPattern),
		StdCode: &code,
		Label:   models.AllLabels[s.fake.IntRange(0, len(models.AllLabels)-1)],
	}
}
