// internal/app/features/contacts/helpers.go
package contacts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/htmlsanitize"
	"github.com/Aashi1109/contacts-api/internal/app/system/imagehost"
	"github.com/Aashi1109/contacts-api/internal/app/system/inputval"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// deleteResult mirrors the acknowledgement of a delete command.
type deleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// parseID parses a hex ObjectID from a path or query value.
func parseID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidID("_id", raw)
	}
	return oid, nil
}

func userNotFound(id primitive.ObjectID) error {
	return apperr.NotFound(fmt.Sprintf("User with id: %s does not exist", id.Hex()))
}

// ensureUserExists loads the user or returns a not found error.
func (h *Handler) ensureUserExists(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, userNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// checkUniqueNumbers rejects a payload whose numbers repeat each other or
// are already stored. The unique index still decides races between
// concurrent requests.
func (h *Handler) checkUniqueNumbers(ctx context.Context, contacts []inputval.ContactInfoInput) error {
	seen := make(map[string]bool, len(contacts))
	numbers := make([]string, 0, len(contacts))
	for _, c := range contacts {
		n := strings.TrimSpace(inputval.Str(c.Number))
		if seen[n] {
			return duplicateNumber(n)
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil
	}

	inUse, err := h.Infos.NumbersInUse(ctx, numbers)
	if err != nil {
		return err
	}
	if len(inUse) == 0 {
		return nil
	}
	used := make(map[string]bool, len(inUse))
	for _, n := range inUse {
		used[n] = true
	}
	// Report the first offender in payload order.
	for _, n := range numbers {
		if used[n] {
			return duplicateNumber(n)
		}
	}
	return nil
}

func duplicateNumber(n string) error {
	return apperr.Client(fmt.Sprintf("Contact with number %s already exists", n))
}

// toNewInfos maps validated payload entries to store inserts.
func toNewInfos(contacts []inputval.ContactInfoInput) []contactinfostore.NewInfo {
	out := make([]contactinfostore.NewInfo, 0, len(contacts))
	for _, c := range contacts {
		ni := contactinfostore.NewInfo{Number: strings.TrimSpace(inputval.Str(c.Number))}
		if c.StdCode.Set {
			code := c.StdCode.Value
			ni.StdCode = &code
		}
		if c.Label != nil {
			ni.Label = models.Label(*c.Label)
		}
		out = append(out, ni)
	}
	return out
}

// validateNumber checks that a number filter is a finite number.
// ParseFloat also accepts NaN and the infinities, which are not numbers
// a phone search can match.
func validateNumber(n string) error {
	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return apperr.Client(fmt.Sprintf("Number is not valid: %s", n))
	}
	return nil
}

// uploadImage sends a non-empty image to the host and returns its URL.
// A nil result means there is nothing to store.
func (h *Handler) uploadImage(ctx context.Context, image *string) (*string, error) {
	if image == nil || strings.TrimSpace(*image) == "" {
		return nil, nil
	}
	if h.Images == nil {
		return nil, apperr.Client("Image uploads are not enabled")
	}

	url, err := h.Images.Upload(ctx, strings.TrimSpace(*image))
	if errors.Is(err, imagehost.ErrInvalidImage) {
		return nil, apperr.Client("Image is not valid base64 data", err.Error())
	}
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	h.Log.Debug("image upload result", zap.String("url", url))
	if url == "" {
		return nil, nil
	}
	return &url, nil
}

// nonEmpty returns a sanitized copy of s, or nil when s is absent or blank
// so that partial updates never clear a field.
func nonEmpty(s *string) *string {
	clean := htmlsanitize.PlainTextPtr(s)
	if clean == nil || *clean == "" {
		return nil
	}
	return clean
}
