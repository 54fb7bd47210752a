// internal/app/features/contacts/query.go
package contacts

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// queryParams holds the parsed query string of GET /query.
type queryParams struct {
	Name   string
	UserID *primitive.ObjectID
	InfoID *primitive.ObjectID
	Number string
	Limit  int64
	Skip   int64
}

func parseQuery(r *http.Request) (queryParams, error) {
	var p queryParams
	p.Name = strings.TrimSpace(query.Get(r, "name"))
	p.Number = strings.TrimSpace(query.Get(r, "number"))

	if p.Number != "" {
		if err := validateNumber(p.Number); err != nil {
			return p, err
		}
	}
	if v := strings.TrimSpace(query.Get(r, "userId")); v != "" {
		oid, err := parseID(v)
		if err != nil {
			return p, err
		}
		p.UserID = &oid
	}
	if v := strings.TrimSpace(query.Get(r, "infoId")); v != "" {
		oid, err := parseID(v)
		if err != nil {
			return p, err
		}
		p.InfoID = &oid
	}

	var err error
	if p.Limit, err = nonNegative("limit", query.Get(r, "limit")); err != nil {
		return p, err
	}
	if p.Skip, err = nonNegative("skip", query.Get(r, "skip")); err != nil {
		return p, err
	}
	return p, nil
}

func nonNegative(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.Client(fmt.Sprintf("Invalid %s: %s", name, raw))
	}
	return n, nil
}

// ServeQuery lists contacts matching the query string.
//
// userId short-circuits every other filter and returns that user with all
// of its contact infos. Otherwise contact infos are filtered by owner
// name, infoId and number and grouped by owner.
func (h *Handler) ServeQuery(w http.ResponseWriter, r *http.Request) {
	p, err := parseQuery(r)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	h.Log.Info("query contacts request", zap.String("query", r.URL.RawQuery))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "query contacts")
	defer cancel()

	if p.UserID != nil {
		user, err := h.ensureUserExists(ctx, *p.UserID)
		if err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
		infos, err := h.Infos.ListByUser(ctx, user.ID)
		if err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, "", []userWithContacts{{User: *user, Contacts: infos}})
		return
	}

	f := contactinfostore.Filter{Number: p.Number, Limit: p.Limit, Skip: p.Skip}
	if p.InfoID != nil {
		f.IDs = []primitive.ObjectID{*p.InfoID}
	}
	if p.Name != "" {
		ids, err := h.Users.IDsByName(ctx, p.Name)
		if err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
		// Non-nil so a name that matches nobody yields no rows.
		f.UserIDs = append([]primitive.ObjectID{}, ids...)
	}
	h.Log.Debug("contact info filter",
		zap.Int("ids", len(f.IDs)),
		zap.Int("user_ids", len(f.UserIDs)),
		zap.String("number", f.Number),
		zap.Int64("limit", f.Limit),
		zap.Int64("skip", f.Skip))

	rows, err := h.Infos.Find(ctx, f)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, "", GroupByUser(rows))
}
