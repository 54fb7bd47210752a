package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Aashi1109/contacts-api/internal/app/features/health"
	"github.com/Aashi1109/contacts-api/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type banner struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, banner) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var b banner
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, b
}

func TestServe_Up(t *testing.T) {
	rec, b := serve(t, health.NewHandler(fakePinger{}, zap.NewNop()))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if b.Name != "Contacts API" || b.Version != "1.0.0" || b.Message != "Server is up and running" {
		t.Errorf("banner = %+v", b)
	}
	if b.Database != "connected" {
		t.Errorf("database = %q", b.Database)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec, b := serve(t, health.NewHandler(fakePinger{err: errors.New("no reachable servers")}, zap.New(core)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if b.Database != "disconnected" {
		t.Errorf("banner = %+v", b)
	}
	if b.Error != "" || strings.Contains(rec.Body.String(), "no reachable servers") {
		t.Errorf("driver error leaked into the response: %s", rec.Body.String())
	}
	if logs.FilterMessage("health-check: mongo ping failed").Len() != 1 {
		t.Error("expected the ping failure to be logged")
	}
}

func TestServe_RealDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)

	rec, _ := serve(t, health.NewHandler(db.Client(), zap.NewNop()))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
