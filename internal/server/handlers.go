package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts an error-returning handler, rendering failures as JSON.
func handle(logger *slog.Logger, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			middleware.WriteError(logger, w, r, err)
		}
	}
}

// writeJSON encodes v before touching w, so an encoding failure can still be
// rendered as an error response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", errcode.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errcode.Wrap(errcode.InvalidRequest, errors.New("request body is empty"))
		}
		return errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("decode request body: %w", err))
	}
	return nil
}

// subject returns the authenticated user id placed in the context by the gate.
func subject(r *http.Request) (int64, error) {
	id, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		return 0, errcode.New(errcode.Unauthorized)
	}
	return id, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("invalid %s %q", name, raw))
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errcode.Wrap(errcode.InvalidRequest, fmt.Errorf("invalid %s %q", name, raw))
	}
	return n, nil
}

func queryOptionalInt(r *http.Request, name string) (*int, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	n, err := queryInt(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
