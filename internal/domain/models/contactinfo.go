// internal/domain/models/contactinfo.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Label classifies a phone number.
type Label string

const (
	LabelHome   Label = "HOME"
	LabelWork   Label = "WORK"
	LabelMobile Label = "MOBILE"
	LabelOther  Label = "OTHER"
)

// DefaultStdCode is stored when a contact info is created without a dialing code.
const DefaultStdCode = 91

// AllLabels lists the accepted labels in display order.
var AllLabels = []Label{LabelHome, LabelWork, LabelMobile, LabelOther}

// ParseLabel matches s case-insensitively against AllLabels.
func ParseLabel(s string) (Label, bool) {
	up := Label(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range AllLabels {
		if l == up {
			return l, true
		}
	}
	return "", false
}

// ContactInfo is a single phone number owned by exactly one User.
// Number is unique across the whole collection, not per user.
type ContactInfo struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Number  string             `bson:"number" json:"number"`
	StdCode int                `bson:"std_code" json:"stdCode"`
	Label   Label              `bson:"label" json:"label"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`

	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}

// ContactInfoWithUser is a ContactInfo with its owning User joined in.
// User is nil when the owner no longer exists.
type ContactInfoWithUser struct {
	ContactInfo `bson:",inline"`
	User        *User `bson:"user,omitempty" json:"user,omitempty"`
}
