// internal/app/features/contacts/create.go
package contacts

import (
	"context"
	"net/http"

	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/htmlsanitize"
	"github.com/Aashi1109/contacts-api/internal/app/system/inputval"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.uber.org/zap"
)

// userWithContacts is a user together with every contact info it owns.
type userWithContacts struct {
	models.User
	Contacts []models.ContactInfo `json:"contacts"`
}

// HandleCreate creates a user and its contact infos.
//
// Numbers are checked for uniqueness before anything is written, so a
// rejected request never uploads an image or leaves a user behind.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := inputval.FromContext[inputval.ContactCreate](r.Context())
	if !ok {
		h.ErrLog.Render(w, r, apperr.Client("Request body is required"))
		return
	}
	h.Log.Info("create contact request", zap.Int("contacts", len(body.Contacts)))

	if len(body.Contacts) == 0 {
		h.ErrLog.Render(w, r, apperr.Client("Contacts are required"))
		return
	}

	firstName := htmlsanitize.PlainText(inputval.Str(body.FirstName))
	if firstName == "" {
		h.ErrLog.Render(w, r, apperr.Client("Invalid data provided: First name cannot be empty"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create contact")
	defer cancel()

	if err := h.checkUniqueNumbers(ctx, body.Contacts); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	image, err := h.uploadImage(ctx, body.Image)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		FirstName: firstName,
		LastName:  htmlsanitize.PlainText(inputval.Str(body.LastName)),
		Address:   htmlsanitize.PlainText(inputval.Str(body.Address)),
		Image:     image,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	infos, err := h.Infos.CreateMany(ctx, user.ID, toNewInfos(body.Contacts))
	if err != nil {
		// CreateMany removes its own partial inserts; the user goes too.
		if _, derr := h.Users.Delete(context.WithoutCancel(ctx), user.ID); derr != nil {
			h.Log.Warn("remove user after failed contact insert",
				zap.String("user_id", user.ID.Hex()), zap.Error(derr))
		}
		h.ErrLog.Render(w, r, err)
		return
	}

	h.Log.Info("contact created",
		zap.String("user_id", user.ID.Hex()),
		zap.Int("contacts", len(infos)))
	respond.OK(w, http.StatusCreated, "Contact created successfully", userWithContacts{User: user, Contacts: infos})
}
