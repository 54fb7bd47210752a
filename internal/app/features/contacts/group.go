// internal/app/features/contacts/group.go
package contacts

import (
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactView is a contact info as listed under its owner.
type ContactView struct {
	ID      primitive.ObjectID `json:"_id"`
	Number  string             `json:"number"`
	StdCode int                `json:"stdCode"`
	Label   models.Label       `json:"label"`
}

// ContactGroup is one user with the contact infos a query matched.
type ContactGroup struct {
	ID        primitive.ObjectID `json:"_id"`
	FirstName string             `json:"firstname"`
	LastName  string             `json:"lastname"`
	Image     *string            `json:"image"`
	Address   string             `json:"address"`
	Contacts  []ContactView      `json:"contacts"`
}

// GroupByUser folds joined contact info rows into one group per owning
// user. Groups keep the order in which their user first appears and
// contacts keep row order. Rows without a joined user are skipped.
func GroupByUser(rows []models.ContactInfoWithUser) []ContactGroup {
	out := []ContactGroup{}
	index := make(map[primitive.ObjectID]int)

	for _, row := range rows {
		if row.User == nil {
			continue
		}
		i, ok := index[row.User.ID]
		if !ok {
			i = len(out)
			index[row.User.ID] = i
			out = append(out, ContactGroup{
				ID:        row.User.ID,
				FirstName: row.User.FirstName,
				LastName:  row.User.LastName,
				Image:     row.User.Image,
				Address:   row.User.Address,
				Contacts:  []ContactView{},
			})
		}
		out[i].Contacts = append(out[i].Contacts, ContactView{
			ID:      row.ID,
			Number:  row.Number,
			StdCode: row.StdCode,
			Label:   row.Label,
		})
	}
	return out
}
