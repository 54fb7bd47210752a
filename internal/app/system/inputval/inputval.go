// Package inputval decodes and validates JSON request bodies against the
// contact schemas. Validation is fail-fast: the first violated rule is
// reported as a client error and nothing downstream runs.
package inputval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies; base64 images make them large.
const MaxBodyBytes = 10 << 20

const invalidPrefix = "Invalid data provided: "

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("label", func(fl validator.FieldLevel) bool {
		for _, l := range models.AllLabels {
			if fl.Field().String() == string(l) {
				return true
			}
		}
		return false
	})
	return v
}

// ruleMessages maps "<json field>.<tag>" to the message reported for it.
var ruleMessages = map[string]string{
	"firstname.required": "First name is required",
	"firstname.min":      "First name cannot be empty",
	"contacts.required":  "Contacts are required",
	"number.required":    "Contact number is required",
	"number.min":         "Contact number cannot be empty",
	"label.label":        "Label must be one of the following: " + labelList(),
}

// typeMessages maps a json field to the message used when its JSON type is wrong.
var typeMessages = map[string]string{
	"firstname": "First name should be a type of string",
	"lastname":  "Last name should be a type of string",
	"image":     "Image should be a type of string",
	"address":   "Address should be a type of string",
	"contacts":  "Contacts should be an array",
	"number":    "Contact number should be a type of string",
	"label":     "Label should be a type of string",
	"stdCode":   "Standard code should be a type of number",
}

func labelList() string {
	parts := make([]string, len(models.AllLabels))
	for i, l := range models.AllLabels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// Decode reads a JSON object from body into dst and validates it.
// An empty body is treated as {}.
func Decode(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return decodeError(err)
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := validate.Struct(dst); err != nil {
		return ruleError(err)
	}
	return nil
}

func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		syntax  *json.SyntaxError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.Is(err, errStdCodeType):
		return invalid(typeMessages["stdCode"])
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if field == "" {
			return invalid("Request body should be an object")
		}
		if field == "contacts" && typeErr.Type != nil && typeErr.Type.Kind() == reflect.Struct {
			return invalid("Contacts must include required fields")
		}
		if msg, ok := typeMessages[field]; ok {
			return invalid(msg)
		}
		return invalid(fmt.Sprintf("%q has an invalid type", field))
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Client("Invalid JSON body")
	case errors.As(err, &tooBig):
		return apperr.Client("Request body too large")
	}
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return invalid(name + " is not allowed")
	}
	return apperr.Client("Invalid JSON body", err.Error())
}

func ruleError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	fe := verrs[0]
	if msg, ok := ruleMessages[fe.Field()+"."+fe.Tag()]; ok {
		return invalid(msg)
	}
	return invalid(fmt.Sprintf("%q failed the %q rule", fe.Field(), fe.Tag()))
}

func invalid(msg string) *apperr.Error {
	return apperr.Client(invalidPrefix + msg)
}

type ctxKey[T any] struct{}

// Middleware decodes the request body into a new T, validates it and
// stores it in the request context for FromContext. Failures are handed
// to onErr and the wrapped handler is not called.
func Middleware[T any](onErr func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := new(T)
			if err := Decode(http.MaxBytesReader(w, r.Body, MaxBodyBytes), v); err != nil {
				onErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), v)))
		})
	}
}

// WithValue returns a copy of ctx carrying v.
func WithValue[T any](ctx context.Context, v *T) context.Context {
	return context.WithValue(ctx, ctxKey[T]{}, v)
}

// FromContext returns the validated body stored by Middleware.
func FromContext[T any](ctx context.Context) (*T, bool) {
	v, ok := ctx.Value(ctxKey[T]{}).(*T)
	return v, ok
}
