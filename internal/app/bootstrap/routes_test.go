package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	contactsfeature "github.com/Aashi1109/contacts-api/internal/app/features/contacts"
	errorsfeature "github.com/Aashi1109/contacts-api/internal/app/features/errors"
	healthfeature "github.com/Aashi1109/contacts-api/internal/app/features/health"
	"github.com/Aashi1109/contacts-api/internal/app/system/metrics"
	"github.com/Aashi1109/contacts-api/internal/app/system/ratelimit"
	"github.com/Aashi1109/contacts-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error { return p.err }

// testRouter builds the router without stores; only routes that never
// reach a store are exercised here.
func testRouter(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	return testRouterWithLimit(t, pingErr, nil)
}

func testRouterWithLimit(t *testing.T, pingErr error, limiter *ratelimit.Limiter) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	errLog := errorsfeature.NewErrorLogger(logger, false)
	contacts := contactsfeature.NewHandler(nil, nil, nil, errLog, logger)
	health := healthfeature.NewHandler(stubPinger{err: pingErr}, logger)
	return newRouter(nil, errLog, metrics.New(), limiter, health, contacts)
}

func serve(h http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := serve(testRouter(t, nil), testutil.NewRequest(http.MethodGet, "/health"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"database":"connected"`)

	rec = serve(testRouter(t, errors.New("no servers")), testutil.NewRequest(http.MethodGet, "/health"))
	rec.AssertStatus(t, http.StatusServiceUnavailable)
}

func TestRouter_NotFound(t *testing.T) {
	h := testRouter(t, nil)
	for _, path := range []string{"/nowhere", "/api/contacts/a/b/c"} {
		rec := serve(h, testutil.NewRequest(http.MethodGet, path))
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertContains(t, "Route not found")
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec := serve(testRouter(t, nil), testutil.NewRequest(http.MethodPut, "/api/contacts/query"))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
	rec.AssertContains(t, `"success":false`)
}

func TestRouter_ValidationRunsBeforeHandlers(t *testing.T) {
	rec := serve(testRouter(t, nil), testutil.NewJSONRequest(http.MethodPost, "/api/contacts/create", `{"lastname":"x"}`))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Invalid data provided")
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/contacts/query", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := serve(testRouter(t, nil), req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := testRouter(t, nil)
	serve(h, testutil.NewRequest(http.MethodGet, "/health"))

	rec := serve(h, testutil.NewRequest(http.MethodGet, "/metrics"))
	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "contactsapi_http_requests_total") {
		t.Error("expected request counter in exposition")
	}
	if !strings.Contains(body, `route="/health`) {
		t.Errorf("expected /health route label, got:\n%s", body)
	}
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	h := testRouterWithLimit(t, nil, ratelimit.New(1, time.Minute))
	body := `{"lastname":"x"}`

	serve(h, testutil.NewJSONRequest(http.MethodPost, "/api/contacts/create", body)).AssertStatus(t, http.StatusBadRequest)
	rec := serve(h, testutil.NewJSONRequest(http.MethodPost, "/api/contacts/create", body))
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "Too many requests")

	serve(h, testutil.NewRequest(http.MethodGet, "/health")).AssertStatus(t, http.StatusOK)
}

func TestMountLocalFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ContactsAPI"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ContactsAPI", "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := testRouter(t, nil).(chi.Router)
	mountLocalFiles(h, "/files/images", dir)

	rec := serve(h, testutil.NewRequest(http.MethodGet, "/files/images/ContactsAPI/a.png"))
	rec.AssertStatus(t, http.StatusOK)
	if rec.Body.String() != "png" {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = serve(h, testutil.NewRequest(http.MethodGet, "/files/images/missing.png"))
	rec.AssertStatus(t, http.StatusNotFound)
}
