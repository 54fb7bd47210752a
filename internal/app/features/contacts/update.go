// internal/app/features/contacts/update.go
package contacts

import (
	"errors"
	"net/http"

	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/inputval"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// userWithNewContacts is the update response. NewContacts is left out
// when the request carried no contacts.
type userWithNewContacts struct {
	models.User
	NewContacts any `json:"newContacts,omitempty"`
}

// HandleUpdate patches a user's profile and appends new contact infos.
// Blank values leave the stored field as it is.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	body, ok := inputval.FromContext[inputval.ContactUpdate](r.Context())
	if !ok {
		h.ErrLog.Render(w, r, apperr.Client("Request body is required"))
		return
	}
	h.Log.Info("update contact request", zap.String("user_id", id.Hex()))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update contact")
	defer cancel()

	if body.Contacts != nil {
		if err := h.checkUniqueNumbers(ctx, body.Contacts); err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
	}

	if _, err := h.ensureUserExists(ctx, id); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	image, err := h.uploadImage(ctx, body.Image)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	user, err := h.Users.Update(ctx, id, userstore.Update{
		FirstName: nonEmpty(body.FirstName),
		LastName:  nonEmpty(body.LastName),
		Address:   nonEmpty(body.Address),
		Image:     image,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Deleted between the existence check and the update.
		h.ErrLog.Render(w, r, userNotFound(id))
		return
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	out := userWithNewContacts{User: *user}
	if body.Contacts != nil {
		infos, err := h.Infos.CreateMany(ctx, id, toNewInfos(body.Contacts))
		if err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
		out.NewContacts = infos
	}

	respond.OK(w, http.StatusOK, "Contacts updated successfully", out)
}
