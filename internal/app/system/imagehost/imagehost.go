// Package imagehost uploads contact images to an external host and returns
// the public URL of the stored file.
//
// Images arrive as base64 strings, with or without a data URI prefix.
// Two backends exist: Cloudinary, and a waffle storage.Store (S3 or local
// disk). Which one runs is a config choice.
package imagehost

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

// DefaultDataURIPrefix is assumed for bare base64 payloads.
const DefaultDataURIPrefix = "data:image/jpeg;base64,"

// Uploader stores an image and returns its public URL. An empty URL with a
// nil error means the host accepted the upload but returned no address.
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

// WithDataURIPrefix returns image unchanged when it already carries an
// image data URI prefix and prepends DefaultDataURIPrefix otherwise.
func WithDataURIPrefix(image string) string {
	if strings.HasPrefix(image, "data:image/") {
		return image
	}
	return DefaultDataURIPrefix + image
}

// ErrInvalidImage wraps every failure caused by the image payload itself,
// as opposed to the host.
var ErrInvalidImage = errors.New("imagehost: invalid image data")

func invalidImage(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidImage, detail)
}

// decodeDataURI splits a "data:<type>;base64,<payload>" string into its
// media type and decoded bytes.
func decodeDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, invalidImage("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, invalidImage("data URI has no comma")
	}
	meta, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, invalidImage("data URI is not base64 encoded")
	}
	if meta == "" {
		meta = "application/octet-stream"
	}

	payload = strings.TrimSpace(payload)
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return "", nil, invalidImage(err.Error())
		}
	}
	if len(data) == 0 {
		return "", nil, invalidImage("empty payload")
	}
	return meta, data, nil
}

// extensionFor returns a file extension for the media type, ".bin" when unknown.
func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// Observed wraps an Uploader and reports the outcome of every upload.
type Observed struct {
	Uploader
	Observe func(err error)
}

func (o Observed) Upload(ctx context.Context, image string) (string, error) {
	url, err := o.Uploader.Upload(ctx, image)
	if o.Observe != nil {
		o.Observe(err)
	}
	return url, err
}
