// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the contacts API.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, image_backend, etc.
//   - Environment variables: CONTACTSAPI_MONGO_URI, CONTACTSAPI_IMAGE_BACKEND, etc.
//   - Command-line flags: --mongo_uri, --image_backend, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ContactsAPI", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Image hosting
	{Name: "image_backend", Default: "none", Desc: "Image host: 'cloudinary', 'storage' or 'none'"},
	{Name: "image_folder", Default: "ContactsAPI", Desc: "Cloudinary folder or storage path prefix for uploaded images"},
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name"},
	{Name: "cloudinary_api_key", Default: "", Desc: "Cloudinary API key"},
	{Name: "cloudinary_api_secret", Default: "", Desc: "Cloudinary API secret"},

	// File storage (image_backend=storage)
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/images", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files/images", Desc: "URL prefix for serving local files"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL (blank uses the bucket URL)"},

	// CORS
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},

	// Rate limiting
	{Name: "rate_limit_requests", Default: 300, Desc: "Requests allowed per client per window on /api/contacts (0 disables)"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for queries and deletes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for creates and updates that upload images"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CONTACTSAPI_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CONTACTSAPI", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ImageBackend: strings.ToLower(strings.TrimSpace(appValues.String("image_backend"))),
		ImageFolder:  appValues.String("image_folder"),

		CloudinaryCloudName: appValues.String("cloudinary_cloud_name"),
		CloudinaryAPIKey:    appValues.String("cloudinary_api_key"),
		CloudinaryAPISecret: appValues.String("cloudinary_api_secret"),

		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  strings.TrimRight(appValues.String("storage_local_url"), "/"),

		StorageS3Region: appValues.String("storage_s3_region"),
		StorageS3Bucket: appValues.String("storage_s3_bucket"),
		StorageS3Prefix: appValues.String("storage_s3_prefix"),
		StorageCFURL:    appValues.String("storage_cf_url"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		RateLimitRequests: appValues.Int("rate_limit_requests"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}
	if appCfg.ImageBackend == "" {
		appCfg.ImageBackend = ImageBackendNone
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI format before attempting to connect and makes
// sure the selected image backend has the credentials it needs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	switch appCfg.ImageBackend {
	case ImageBackendNone:
		logger.Warn("image uploads disabled; requests with an image will be rejected")
	case ImageBackendCloudinary:
		if appCfg.CloudinaryCloudName == "" || appCfg.CloudinaryAPIKey == "" || appCfg.CloudinaryAPISecret == "" {
			return fmt.Errorf("image_backend cloudinary requires cloudinary_cloud_name, cloudinary_api_key and cloudinary_api_secret")
		}
	case ImageBackendStorage:
		switch appCfg.StorageType {
		case StorageTypeLocal:
			if strings.TrimSpace(appCfg.StorageLocalPath) == "" {
				return fmt.Errorf("storage_type local requires storage_local_path")
			}
		case StorageTypeS3:
			if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
				return fmt.Errorf("storage_type s3 requires storage_s3_bucket and storage_s3_region")
			}
		default:
			return fmt.Errorf("unknown storage_type %q (want local or s3)", appCfg.StorageType)
		}
	default:
		return fmt.Errorf("unknown image_backend %q (want cloudinary, storage or none)", appCfg.ImageBackend)
	}

	if appCfg.RateLimitRequests < 0 {
		return fmt.Errorf("rate_limit_requests must not be negative, got %d", appCfg.RateLimitRequests)
	}
	if appCfg.RateLimitRequests > 0 && appCfg.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive, got %s", appCfg.RateLimitWindow)
	}

	for name, d := range map[string]time.Duration{
		"timeout_short":  appCfg.TimeoutShort,
		"timeout_medium": appCfg.TimeoutMedium,
		"timeout_long":   appCfg.TimeoutLong,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	return nil
}
