// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig carries what is specific to the contacts API: the MongoDB
// connection, the image host with its credentials, the rate limit and
// the per-operation timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Image hosting
	ImageBackend string // "cloudinary", "storage" or "none"
	ImageFolder  string // Cloudinary folder, or path prefix inside the storage backend

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// File storage configuration (only used if ImageBackend is "storage")
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/images")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/images")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region string // AWS region
	StorageS3Bucket string // S3 bucket name
	StorageS3Prefix string // Key prefix applied by the store
	StorageCFURL    string // CloudFront distribution URL used for public image links

	// CORS
	CORSAllowedOrigins []string

	// Per-client rate limit on the contacts API; 0 requests disables it
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Timeouts for store and upload calls made while serving a request
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}

// Image backends accepted by image_backend.
const (
	ImageBackendNone       = "none"
	ImageBackendCloudinary = "cloudinary"
	ImageBackendStorage    = "storage"
)

// Storage types accepted by storage_type.
const (
	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"
)
