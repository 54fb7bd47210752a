// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/Aashi1109/contacts-api/internal/app/system/imagehost"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Images is nil when image uploads are disabled.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Images       imagehost.Uploader
	ImageBackend string // metrics label: cloudinary, s3, local or none
}
