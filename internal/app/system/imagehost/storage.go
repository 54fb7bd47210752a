package imagehost

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stored puts images into a waffle storage backend (S3 or local disk)
// and answers with the backend's public URL for the object.
type Stored struct {
	store  storage.Store
	folder string
	log    *zap.Logger
	now    func() time.Time
}

// NewStored builds an uploader that writes under folder/YYYY/MM/.
func NewStored(store storage.Store, folder string, log *zap.Logger) *Stored {
	return &Stored{
		store:  store,
		folder: strings.Trim(folder, "/"),
		log:    log,
		now:    time.Now,
	}
}

// Backend names the underlying store, for metrics labels.
func (s *Stored) Backend() string { return s.store.Backend() }

// Upload decodes the data URI and stores the bytes as a new object.
func (s *Stored) Upload(ctx context.Context, image string) (string, error) {
	mediaType, data, err := decodeDataURI(WithDataURIPrefix(image))
	if err != nil {
		return "", err
	}

	// Unique path: <folder>/YYYY/MM/<uuid>.<ext>
	now := s.now().UTC()
	p := path.Join(s.folder,
		fmt.Sprintf("%04d/%02d", now.Year(), now.Month()),
		uuid.NewString()+extensionFor(mediaType))

	opts := &storage.PutOptions{
		ContentType:  mediaType,
		CacheControl: "public, max-age=31536000, immutable",
	}
	if err := s.store.PutBytes(ctx, p, data, opts); err != nil {
		return "", fmt.Errorf("store image %s: %w", p, err)
	}

	url := s.store.URL(p)
	s.log.Info("image uploaded",
		zap.String("backend", s.store.Backend()),
		zap.String("path", p),
		zap.Int("bytes", len(data)))
	return url, nil
}
