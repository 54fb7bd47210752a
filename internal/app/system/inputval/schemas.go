// internal/app/system/inputval/schemas.go
package inputval

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/Aashi1109/contacts-api/internal/domain/models"
)

// StdCode is a dialing code that accepts a JSON number, a numeric string or
// an empty string (treated as absent).
type StdCode struct {
	Value int
	Set   bool
}

var errStdCodeType = errors.New("stdCode: not a number")

func (s *StdCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = StdCode{}
		return nil
	}
	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		unq, err := strconv.Unquote(raw)
		if err != nil {
			return errStdCodeType
		}
		raw = strings.TrimSpace(unq)
		if raw == "" {
			*s = StdCode{}
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return errStdCodeType
	}
	*s = StdCode{Value: int(f), Set: true}
	return nil
}

// MarshalJSON writes the code as a number, or null when unset.
func (s StdCode) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

// ContactInfoInput is one element of the contacts array on create/update.
type ContactInfoInput struct {
	Number  *string `json:"number" validate:"required,min=1"`
	StdCode StdCode `json:"stdCode"`
	Label   *string `json:"label" validate:"omitempty,label"`
}

// ContactInfoUpdate is the body of PATCH /api/contacts/{id}/{infoId}.
type ContactInfoUpdate struct {
	Number  *string `json:"number" validate:"omitempty,min=1"`
	StdCode StdCode `json:"stdCode"`
	Label   *string `json:"label" validate:"omitempty,label"`
}

// ContactCreate is the body of POST /api/contacts/create.
type ContactCreate struct {
	FirstName *string            `json:"firstname" validate:"required,min=1"`
	LastName  *string            `json:"lastname"`
	Image     *string            `json:"image"`
	Address   *string            `json:"address"`
	Contacts  []ContactInfoInput `json:"contacts" validate:"required,dive"`
}

// ContactUpdate is the body of PATCH /api/contacts/{id}. Every field is optional.
type ContactUpdate struct {
	FirstName *string            `json:"firstname" validate:"omitempty,min=1"`
	LastName  *string            `json:"lastname"`
	Image     *string            `json:"image"`
	Address   *string            `json:"address"`
	Contacts  []ContactInfoInput `json:"contacts" validate:"omitempty,dive"`
}

// normalizer is implemented by schemas that tidy values before validation.
type normalizer interface {
	normalize()
}

func (c *ContactInfoInput) normalize() {
	c.Number = trimmed(c.Number)
	c.Label = upperLabel(c.Label)
}

func (c *ContactInfoUpdate) normalize() {
	c.Number = trimmed(c.Number)
	c.Label = upperLabel(c.Label)
}

func (c *ContactCreate) normalize() {
	c.FirstName = trimmed(c.FirstName)
	for i := range c.Contacts {
		c.Contacts[i].normalize()
	}
}

func (c *ContactUpdate) normalize() {
	c.FirstName = trimmed(c.FirstName)
	for i := range c.Contacts {
		c.Contacts[i].normalize()
	}
}

// trimmed strips surrounding whitespace so blank values fail min=1.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	return &t
}

func upperLabel(l *string) *string {
	if l == nil {
		return nil
	}
	if lbl, ok := models.ParseLabel(*l); ok {
		s := string(lbl)
		return &s
	}
	return l
}

// Str dereferences an optional string.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
