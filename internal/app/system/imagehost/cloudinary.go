package imagehost

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Cloudinary uploads images to a Cloudinary folder.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.Logger
}

// NewCloudinary builds an uploader from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret, folder string, log *zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder, log: log}, nil
}

func (c *Cloudinary) params() uploader.UploadParams {
	return uploader.UploadParams{
		Folder:         c.folder,
		UseFilename:    api.Bool(false),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "auto",
	}
}

// Upload sends the image as a data URI and returns the secure URL.
// Payloads that do not decode are refused before any network call.
func (c *Cloudinary) Upload(ctx context.Context, image string) (string, error) {
	uri := WithDataURIPrefix(image)
	if _, _, err := decodeDataURI(uri); err != nil {
		return "", err
	}
	res, err := c.cld.Upload.Upload(ctx, uri, c.params())
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %w", errors.New(res.Error.Message))
	}
	c.log.Info("image uploaded",
		zap.String("backend", "cloudinary"),
		zap.String("public_id", res.PublicID),
		zap.String("url", res.SecureURL))
	return res.SecureURL, nil
}
