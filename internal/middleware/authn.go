package middleware

import (
	"log/slog"
	"net/http"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/telemetry"
)

// AuthGate enforces bearer authentication on every route outside the
// allowlist. Authenticated requests carry the subject in their context.
func AuthGate(gate *auth.Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := gate.Authenticate(r)
			telemetry.AuthOutcomesTotal.WithLabelValues(outcome.Decision.String(), outcome.Code.Name).Inc()

			switch outcome.Decision {
			case auth.DecisionAllowlisted:
				next.ServeHTTP(w, r)
			case auth.DecisionAuthenticated:
				next.ServeHTTP(w, r.WithContext(auth.WithSubject(r.Context(), outcome.Subject)))
			default:
				WriteError(logger, w, r, errcode.Wrap(outcome.Code, outcome.Err))
			}
		})
	}
}
