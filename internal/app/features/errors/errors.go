// internal/app/features/errors/errors.go
package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Aashi1109/contacts-api/internal/app/system/apperr"
	"github.com/Aashi1109/contacts-api/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger turns errors into the JSON failure envelope and logs them.
// Every handler error goes through Render so the status mapping lives in
// one place.
type ErrorLogger struct {
	Log *zap.Logger
	// ShowStack adds errors.stackTrace to responses. Off in production.
	ShowStack bool
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger, showStack bool) *ErrorLogger {
	return &ErrorLogger{Log: logger, ShowStack: showStack}
}

// Render translates err and writes the envelope.
func (e *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.Translate(err)
	if ae == nil {
		ae = apperr.Internal(fmt.Errorf("nil error rendered"))
	}

	body := respond.ErrorBody{Message: ae.Message, AdditionalInfo: ae.AdditionalInfo}
	if e.ShowStack {
		body.StackTrace = trace(ae)
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", ae.Status()),
		zap.String("kind", ae.Kind.String()),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
	if ae.Kind == apperr.KindInternal {
		e.Log.Error(ae.Message, append(fields, zap.Error(ae.Cause))...)
	} else {
		e.Log.Warn(ae.Message, fields...)
	}

	respond.Error(w, ae.Status(), body)
}

func trace(ae *apperr.Error) string {
	if ae.Cause != nil {
		return fmt.Sprintf("%+v", ae.Cause)
	}
	return ae.Error()
}

// NotFound answers unmatched routes.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
}

// MethodNotAllowed answers known paths hit with the wrong method.
func (e *ErrorLogger) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, respond.ErrorBody{
		Message: fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
	})
}

// Recoverer converts a panic in next into a 500 envelope.
func (e *ErrorLogger) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			e.Log.Error("panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", r.URL.Path))
			e.Render(w, r, apperr.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
