// Package errcode defines the error kinds surfaced to API clients and the
// single renderer that turns them into JSON error responses.
package errcode

import (
	"errors"
	"net/http"
)

// Class groups codes by how the boundary treats them.
type Class int

const (
	ClassInternal Class = iota
	ClassUnauthorized
	ClassForbidden
	ClassNotFound
	ClassConflict
	ClassBadRequest
)

// Code is an immutable error kind with its HTTP status and client message.
type Code struct {
	Name    string
	Status  int
	Message string
	Class   Class
}

func (c Code) String() string { return c.Name }

var (
	// Unauthorized class
	Unauthorized        = Code{"UNAUTHORIZED", http.StatusUnauthorized, "authentication is required", ClassUnauthorized}
	InvalidToken        = Code{"INVALID_TOKEN", http.StatusUnauthorized, "invalid access token", ClassUnauthorized}
	ExpiredToken        = Code{"EXPIRED_TOKEN", http.StatusUnauthorized, "access token has expired", ClassUnauthorized}
	InvalidRefreshToken = Code{"INVALID_REFRESH_TOKEN", http.StatusUnauthorized, "invalid refresh token", ClassUnauthorized}
	InvalidLogin        = Code{"INVALID_LOGIN", http.StatusUnauthorized, "email or password does not match", ClassUnauthorized}

	// Forbidden class
	Forbidden               = Code{"FORBIDDEN", http.StatusForbidden, "access is denied", ClassForbidden}
	UserNotHaveEnoughTicket = Code{"USER_NOT_HAVE_ENOUGH_TICKET", http.StatusForbidden, "not enough tickets", ClassForbidden}
	NotTeamLeader           = Code{"NOT_TEAM_LEADER", http.StatusForbidden, "only the team leader can do this", ClassForbidden}

	// Not found class
	UserNotFound     = Code{"USER_NOT_FOUND", http.StatusNotFound, "user not found", ClassNotFound}
	TeamNotFound     = Code{"TEAM_NOT_FOUND", http.StatusNotFound, "team not found", ClassNotFound}
	TeamUserNotFound = Code{"TEAM_USER_NOT_FOUND", http.StatusNotFound, "team member not found", ClassNotFound}
	ContestNotFound  = Code{"CONTEST_NOT_FOUND", http.StatusNotFound, "contest not found", ClassNotFound}
	RouteNotFound    = Code{"NOT_FOUND", http.StatusNotFound, "resource not found", ClassNotFound}

	// Conflict class
	AlreadyUserUseTicket = Code{"ALREADY_USER_USE_TICKET", http.StatusConflict, "ticket already used for this user", ClassConflict}
	AlreadyUserOpenTeam  = Code{"ALREADY_USER_OPEN_TEAM", http.StatusConflict, "user already leads a team", ClassConflict}
	AlreadyUserApplyTeam = Code{"ALREADY_USER_APPLY_TEAM", http.StatusConflict, "user already belongs to a team", ClassConflict}
	DuplicateEmail       = Code{"DUPLICATE_EMAIL", http.StatusConflict, "email is already registered", ClassConflict}

	// Bad request class
	InvalidRequest   = Code{"INVALID_REQUEST", http.StatusBadRequest, "invalid request", ClassBadRequest}
	MethodNotAllowed = Code{"METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "method not allowed", ClassBadRequest}

	InternalServerError = Code{"INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "internal server error", ClassInternal}
)

// Error carries a Code and an optional underlying cause.
// The cause is for logs only and never reaches the client.
type Error struct {
	Code  Code
	Cause error
}

// New returns an error for the given code.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Wrap returns an error for the given code that keeps cause for logging.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Code.Name + ": " + e.Cause.Error()
	}
	return e.Code.Name + ": " + e.Code.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code name.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code.Name == e.Code.Name
}

// CodeOf extracts the Code from err. Errors that are not *Error, including
// nil, map to InternalServerError.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return InternalServerError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code.Name == code.Name
}
