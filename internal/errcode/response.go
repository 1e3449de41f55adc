package errcode

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ContentType is the media type of every error body.
const ContentType = "application/json; charset=utf-8"

// Response is the JSON error contract returned to clients.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ResponseOf builds the client-facing body for a code.
func ResponseOf(code Code) Response {
	return Response{Status: code.Status, Message: code.Message}
}

// Resolve maps any error to the code that will be rendered for it.
// Anything that is not a typed client-facing kind becomes
// InternalServerError.
func Resolve(err error) Code {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return InternalServerError
	}
	switch appErr.Code.Class {
	case ClassUnauthorized, ClassForbidden, ClassNotFound, ClassConflict, ClassBadRequest:
		return appErr.Code
	default:
		return InternalServerError
	}
}

// Write renders err as a JSON error response and returns the code used.
func Write(w http.ResponseWriter, err error) Code {
	code := Resolve(err)
	WriteCode(w, code)
	return code
}

// WriteCode renders code as a JSON error response.
func WriteCode(w http.ResponseWriter, code Code) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(code.Status)
	_ = json.NewEncoder(w).Encode(ResponseOf(code))
}
