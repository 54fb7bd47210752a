package health

import (
	"context"
	"net/http"

	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/Aashi1109/contacts-api/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	Name    = "Contacts API"
	Version = "1.0.0"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  Pinger
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type healthResponse struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "name":"Contacts API", "version":"1.0.0", "message":"Server is up and running", "database":"connected" }
//
// On DB failure: 503 with database "disconnected". The ping error is
// logged, not returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Name:     Name,
		Version:  Version,
		Message:  "Server is up and running",
		Database: "connected",
	}

	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Message = "Database unavailable"
		resp.Database = "disconnected"
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
