package auth

import "github.com/kusitms-com/meetupd/internal/errcode"

// Decision is the terminal state of the authentication gate for one request.
type Decision int

const (
	// DecisionRejected ends the request with an error response.
	DecisionRejected Decision = iota
	// DecisionAllowlisted forwards the request without authentication.
	DecisionAllowlisted
	// DecisionAuthenticated forwards the request with a verified subject.
	DecisionAuthenticated
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowlisted:
		return "allowlisted"
	case DecisionAuthenticated:
		return "authenticated"
	default:
		return "rejected"
	}
}

// Outcome is the result of authenticating one request. Exactly one of
// Pattern, Subject, or Code is meaningful, selected by Decision.
type Outcome struct {
	Decision Decision
	// Pattern is the allowlist entry that matched.
	Pattern string
	// Subject is the authenticated user id.
	Subject int64
	// Code is the rejection reason.
	Code errcode.Code
	// Err keeps the validator failure for logging.
	Err error
}

// Allowlisted returns an outcome for a public route.
func Allowlisted(pattern string) Outcome {
	return Outcome{Decision: DecisionAllowlisted, Pattern: pattern}
}

// Authenticated returns an outcome for a verified subject.
func Authenticated(subject int64) Outcome {
	return Outcome{Decision: DecisionAuthenticated, Subject: subject}
}

// Rejected returns an outcome that ends the request with code.
func Rejected(code errcode.Code, err error) Outcome {
	return Outcome{Decision: DecisionRejected, Code: code, Err: err}
}
