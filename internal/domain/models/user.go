// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a contact's primary profile. Phone numbers live in the
// contact_infos collection and point back here through user_id.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName   string             `bson:"firstname" json:"firstname"`
	FirstNameCI string             `bson:"firstname_ci" json:"-"` // lowercase, diacritics-stripped
	LastName    string             `bson:"lastname" json:"lastname"`
	LastNameCI  string             `bson:"lastname_ci" json:"-"`
	Address     string             `bson:"address" json:"address"`
	Image       *string            `bson:"image" json:"image"`

	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}
