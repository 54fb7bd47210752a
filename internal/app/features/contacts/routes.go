// internal/app/features/contacts/routes.go
package contacts

import (
	"github.com/Aashi1109/contacts-api/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the contacts API. Bodies are decoded and validated by
// inputval before the handlers run.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(inputval.Middleware[inputval.ContactCreate](h.ErrLog.Render)).Post("/create", h.HandleCreate)
	r.Get("/query", h.ServeQuery)

	r.With(inputval.Middleware[inputval.ContactUpdate](h.ErrLog.Render)).Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	r.With(inputval.Middleware[inputval.ContactInfoUpdate](h.ErrLog.Render)).Patch("/{id}/{infoId}", h.HandleUpdateInfo)
	r.Delete("/{id}/{infoId}", h.HandleDeleteInfo)

	return r
}
