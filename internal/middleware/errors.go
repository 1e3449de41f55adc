package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/telemetry"
)

// ErrorTranslation is the outermost application middleware. It logs the
// request path once and turns any panic from inner layers into a structured
// JSON error. Typed panics keep their code; everything else is rendered as
// INTERNAL_SERVER_ERROR without echoing the panic value.
func ErrorTranslation(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("connect url",
				"path", r.URL.Path,
				"method", r.Method,
				"request_id", chimiddleware.GetReqID(r.Context()),
			)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := panicError(rec)
				if ww.Status() != 0 || ww.BytesWritten() > 0 {
					logger.Error("panic after response started",
						"request_id", chimiddleware.GetReqID(r.Context()),
						"error", err,
					)
					return
				}
				WriteError(logger, ww, r, err)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// WriteError renders err through errcode.Write, counts the response, and
// logs server-side failures with their full cause chain.
func WriteError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	code := errcode.Write(w, err)
	telemetry.ErrorResponsesTotal.WithLabelValues(code.Name).Inc()

	if code.Class == errcode.ClassInternal {
		logger.Error("request failed",
			"method", r.Method,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		return
	}
	logger.Debug("request rejected",
		"request_id", chimiddleware.GetReqID(r.Context()),
		"code", code.Name,
		"error", err,
	)
}

func panicError(rec any) error {
	switch v := rec.(type) {
	case *errcode.Error:
		return v
	case error:
		return fmt.Errorf("panic: %w", v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}
