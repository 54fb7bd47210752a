// internal/app/features/contacts/contactinfo.go
package contacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/inputval"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// pathIDs parses the {id} and {infoId} URL params.
func pathIDs(r *http.Request) (userID, infoID primitive.ObjectID, err error) {
	if userID, err = parseID(chi.URLParam(r, "id")); err != nil {
		return
	}
	infoID, err = parseID(chi.URLParam(r, "infoId"))
	return
}

// HandleUpdateInfo patches one contact info. Empty number or label and a
// zero stdCode keep the stored values.
func (h *Handler) HandleUpdateInfo(w http.ResponseWriter, r *http.Request) {
	userID, infoID, err := pathIDs(r)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	body, ok := inputval.FromContext[inputval.ContactInfoUpdate](r.Context())
	if !ok {
		h.ErrLog.Render(w, r, apperr.Client("Request body is required"))
		return
	}
	h.Log.Info("update contact info request",
		zap.String("user_id", userID.Hex()),
		zap.String("info_id", infoID.Hex()))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update contact info")
	defer cancel()

	if _, err := h.ensureUserExists(ctx, userID); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	infoMissing := apperr.NotFound(fmt.Sprintf("Contact with id: %s does not exist", infoID.Hex()))
	if err := h.ensureInfoExists(ctx, infoID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = infoMissing
		}
		h.ErrLog.Render(w, r, err)
		return
	}

	var upd contactinfostore.Update
	if n := strings.TrimSpace(inputval.Str(body.Number)); n != "" {
		upd.Number = &n
	}
	if body.StdCode.Set && body.StdCode.Value != 0 {
		code := body.StdCode.Value
		upd.StdCode = &code
	}
	if body.Label != nil && *body.Label != "" {
		lbl := models.Label(*body.Label)
		upd.Label = &lbl
	}

	info, err := h.Infos.Update(ctx, infoID, upd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = infoMissing
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, "Contact info updated successfully", info)
}

// HandleDeleteInfo removes one contact info owned by the user in the path.
func (h *Handler) HandleDeleteInfo(w http.ResponseWriter, r *http.Request) {
	userID, infoID, err := pathIDs(r)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	h.Log.Info("delete contact info request",
		zap.String("user_id", userID.Hex()),
		zap.String("info_id", infoID.Hex()))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete contact info")
	defer cancel()

	_, err = h.Infos.Delete(ctx, infoID, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Render(w, r, apperr.NotFound(fmt.Sprintf("Contact info with id: %s does not exist", infoID.Hex())))
		return
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, "Contact info deleted successfully", deleteResult{Acknowledged: true, DeletedCount: 1})
}

func (h *Handler) ensureInfoExists(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "get contact info")
	defer cancel()
	_, err := h.Infos.GetByID(ctx, id)
	return err
}
