// Command contactsseed fills a contacts database with fake users and
// contact infos for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/app/system/indexes"
	"github.com/Aashi1109/contacts-api/internal/app/system/seed"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/app/system/validators"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// CLI is the contactsseed command line.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`

	MongoURI string `help:"MongoDB connection URI." env:"CONTACTSAPI_MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `help:"MongoDB database name." env:"CONTACTSAPI_MONGO_DATABASE" default:"ContactsAPI"`

	Users    int           `help:"Number of users to create." default:"20"`
	Contacts int           `help:"Contact infos per user." default:"3"`
	Clear    bool          `help:"Delete existing users and contact infos first." default:"true" negatable:""`
	Seed     uint64        `help:"Random seed for reproducible data (0 = random)." default:"0"`
	Timeout  time.Duration `help:"Overall deadline for the run (0 uses the batch timeout)." default:"0s"`
	Verbose  bool          `help:"Log every contact info created." short:"v"`
}

// Run connects, makes sure the schema exists and seeds.
func (c *CLI) Run() error {
	log, err := newLogger(c.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := timeouts.WithTimeout(ctx, c.deadline(), log, "seed")
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.MongoURI).SetAppName("contactsseed"))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("disconnect failed", zap.Error(err))
		}
		log.Info("disconnected from database")
	}()
	db := client.Database(c.Database)

	if err := validators.EnsureAll(ctx, db); err != nil {
		return err
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return err
	}

	s := seed.New(userstore.New(db), contactinfostore.New(db), c.Seed, log)
	res, err := s.Run(ctx, seed.Config{
		Users:           c.Users,
		ContactsPerUser: c.Contacts,
		Clear:           c.Clear,
	})
	if err != nil {
		return err
	}

	log.Info("dummy data generation complete",
		zap.String("database", c.Database),
		zap.Int("users", res.Users),
		zap.Int("contact_infos", res.ContactInfos),
		zap.Int64("cleared_users", res.ClearedUsers),
		zap.Int64("cleared_contact_infos", res.ClearedInfos))
	return nil
}

// deadline is the run's time budget, defaulting to the batch timeout.
func (c *CLI) deadline() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return timeouts.Batch()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadDotEnv reads .env when present so CONTACTSAPI_* values set there
// reach the env-backed flags.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactsseed"),
		kong.Description("Seed the contacts database with fake users and contact infos."),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
