// internal/app/features/contacts/delete.go
package contacts

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// deletedUser is the delete response: the removed user plus the result of
// removing its contact infos.
type deletedUser struct {
	models.User
	Contacts deleteResult `json:"contacts"`
}

// HandleDelete removes a user and every contact info it owns.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	h.Log.Info("delete contact request", zap.String("user_id", id.Hex()))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete contact")
	defer cancel()

	user, err := h.Users.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Render(w, r, apperr.NotFound(fmt.Sprintf("Contact %s does not exist", id.Hex())))
		return
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	n, err := h.Infos.DeleteByUser(ctx, id)
	if err != nil {
		h.Log.Error("user deleted but contact infos remain",
			zap.String("user_id", id.Hex()), zap.Error(err))
		h.ErrLog.Render(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, "Contact deleted successfully", deletedUser{
		User:     *user,
		Contacts: deleteResult{Acknowledged: true, DeletedCount: n},
	})
}
