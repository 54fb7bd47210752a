// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Aashi1109/contacts-api/internal/app/system/imagehost"
	"github.com/Aashi1109/contacts-api/internal/app/system/indexes"
	"github.com/Aashi1109/contacts-api/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

// ConnectDB connects to MongoDB and builds the image host.
//
// The client is pinged before it is returned so a bad URI or an
// unreachable server fails startup instead of the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("contactsapi")
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	deps.Images, deps.ImageBackend, err = newImageHost(ctx, appCfg, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	return deps, nil
}

// newImageHost returns the uploader for the configured backend and the
// name used for it in metrics. The uploader is nil when uploads are disabled.
func newImageHost(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (imagehost.Uploader, string, error) {
	switch appCfg.ImageBackend {
	case ImageBackendCloudinary:
		up, err := imagehost.NewCloudinary(appCfg.CloudinaryCloudName, appCfg.CloudinaryAPIKey,
			appCfg.CloudinaryAPISecret, appCfg.ImageFolder, logger)
		if err != nil {
			return nil, "", err
		}
		logger.Info("image host ready", zap.String("backend", "cloudinary"), zap.String("folder", appCfg.ImageFolder))
		return up, ImageBackendCloudinary, nil
	case ImageBackendStorage:
		store, err := newStore(ctx, appCfg)
		if err != nil {
			return nil, "", err
		}
		logger.Info("image host ready",
			zap.String("backend", store.Backend()),
			zap.String("folder", appCfg.ImageFolder),
			zap.String("url", store.URL(appCfg.ImageFolder)))
		return imagehost.NewStored(store, appCfg.ImageFolder, logger), store.Backend(), nil
	default:
		return nil, ImageBackendNone, nil
	}
}

// newStore builds the waffle storage backend selected by storage_type.
func newStore(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case StorageTypeS3:
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:        appCfg.StorageS3Region,
			Bucket:        appCfg.StorageS3Bucket,
			Prefix:        appCfg.StorageS3Prefix,
			BaseURL:       appCfg.StorageCFURL,
			CloudFrontURL: appCfg.StorageCFURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		return store, nil
	}
}

// EnsureSchema applies the collection validators and then the indexes.
// Both steps are idempotent and run on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready", zap.String("database", deps.MongoDatabase.Name()))
	return nil
}
