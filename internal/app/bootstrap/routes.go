// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	contactsfeature "github.com/Aashi1109/contacts-api/internal/app/features/contacts"
	errorsfeature "github.com/Aashi1109/contacts-api/internal/app/features/errors"
	healthfeature "github.com/Aashi1109/contacts-api/internal/app/features/health"
	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/app/system/imagehost"
	"github.com/Aashi1109/contacts-api/internal/app/system/metrics"
	"github.com/Aashi1109/contacts-api/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the stores over the Mongo
// database, wraps the image host with upload metrics and mounts the
// contacts API, the health check and the metrics endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Stack traces are only exposed outside production.
	errLog := errorsfeature.NewErrorLogger(logger, coreCfg.Env != "prod")
	m := metrics.New()

	var images imagehost.Uploader
	if deps.Images != nil {
		backend := deps.ImageBackend
		images = imagehost.Observed{
			Uploader: deps.Images,
			Observe:  func(err error) { m.ObserveUpload(backend, err) },
		}
	}

	contactsHandler := contactsfeature.NewHandler(
		userstore.New(deps.MongoDatabase),
		contactinfostore.New(deps.MongoDatabase),
		images,
		errLog,
		logger,
	)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)

	var limiter *ratelimit.Limiter
	if appCfg.RateLimitRequests > 0 {
		limiter = ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)
	}

	r := newRouter(appCfg.CORSAllowedOrigins, errLog, m, limiter, healthHandler, contactsHandler)
	if appCfg.ImageBackend == ImageBackendStorage && appCfg.StorageType == StorageTypeLocal {
		mountLocalFiles(r, appCfg.StorageLocalURL, appCfg.StorageLocalPath)
	}
	return r, nil
}

// mountLocalFiles serves images written by the local storage backend so
// the URLs it hands out resolve. Absolute URL prefixes point elsewhere
// and are left alone.
func mountLocalFiles(r chi.Router, urlPrefix, dir string) {
	if !strings.HasPrefix(urlPrefix, "/") {
		return
	}
	fs := fileserver.Handler(urlPrefix, dir)
	r.Method(http.MethodGet, urlPrefix+"/*", fs)
	r.Method(http.MethodHead, urlPrefix+"/*", fs)
}

// newRouter assembles the middleware chain and mounts the features.
// A nil limiter leaves the API unlimited.
func newRouter(origins []string, errLog *errorsfeature.ErrorLogger, m *metrics.Metrics, limiter *ratelimit.Limiter,
	health *healthfeature.Handler, contacts *contactsfeature.Handler) chi.Router {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Set before Mount so mounted subrouters inherit them.
	r.NotFound(errLog.NotFound)
	r.MethodNotAllowed(errLog.MethodNotAllowed)

	r.Use(middleware.RequestID)
	r.Use(errLog.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false, // must be false when using "*"
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(health))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Mount("/api/contacts", contactsfeature.Routes(contacts))
	})

	return r
}
