package contacts

import (
	"testing"

	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func row(u *models.User, number string) models.ContactInfoWithUser {
	ci := models.ContactInfo{ID: primitive.NewObjectID(), Number: number, StdCode: 91, Label: models.LabelHome}
	if u != nil {
		ci.UserID = u.ID
	}
	return models.ContactInfoWithUser{ContactInfo: ci, User: u}
}

func TestGroupByUser(t *testing.T) {
	ada := &models.User{ID: primitive.NewObjectID(), FirstName: "Ada"}
	bob := &models.User{ID: primitive.NewObjectID(), FirstName: "Bob"}

	rows := []models.ContactInfoWithUser{row(ada, "1"), row(bob, "2"), row(ada, "3")}
	groups := GroupByUser(rows)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].ID != ada.ID || groups[1].ID != bob.ID {
		t.Errorf("group order = %s, %s", groups[0].FirstName, groups[1].FirstName)
	}
	if len(groups[0].Contacts) != 2 || groups[0].Contacts[0].Number != "1" || groups[0].Contacts[1].Number != "3" {
		t.Errorf("ada contacts = %+v", groups[0].Contacts)
	}
	if len(groups[1].Contacts) != 1 || groups[1].Contacts[0].Number != "2" {
		t.Errorf("bob contacts = %+v", groups[1].Contacts)
	}
	if groups[0].Contacts[0].ID != rows[0].ID {
		t.Error("contact ids should be carried over")
	}
}

func TestGroupByUser_Empty(t *testing.T) {
	groups := GroupByUser(nil)
	if groups == nil || len(groups) != 0 {
		t.Errorf("GroupByUser(nil) = %#v, want empty non-nil slice", groups)
	}
}

func TestGroupByUser_SkipsOrphans(t *testing.T) {
	ada := &models.User{ID: primitive.NewObjectID(), FirstName: "Ada"}
	groups := GroupByUser([]models.ContactInfoWithUser{row(nil, "1"), row(ada, "2")})

	if len(groups) != 1 || groups[0].ID != ada.ID {
		t.Fatalf("groups = %+v", groups)
	}
}
