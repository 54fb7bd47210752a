package apperr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// codeDocumentValidationFailure is returned by MongoDB when a write is
// rejected by a collection's $jsonSchema validator.
const codeDocumentValidationFailure = 121

// "... index: uniq_contact_infos_number dup key: { number: \"123\" }"
var dupKeyField = regexp.MustCompile(`dup key: \{\s*"?([A-Za-z0-9_.]+)"?\s*:`)

// Translate maps any error onto the taxonomy. It is pure: it never logs
// and never inspects anything but err.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
		return DuplicateKey(fmt.Sprintf("Duplicate key error: %s already exists", duplicateField(err)))
	}

	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure) {
		return Client("Validation Error", validationDetail(err))
	}

	if errors.Is(err, primitive.ErrInvalidHex) {
		return Client("Invalid _id")
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("Resource not found")
	}

	return Internal(err)
}

func duplicateField(err error) string {
	if m := dupKeyField.FindStringSubmatch(err.Error()); len(m) == 2 {
		return m[1]
	}
	return "key"
}

func validationDetail(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		msgs := make([]string, 0, len(we.WriteErrors))
		for _, e := range we.WriteErrors {
			msgs = append(msgs, e.Message)
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, " ")
		}
	}
	return err.Error()
}
