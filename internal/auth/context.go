package auth

import "context"

type subjectContextKey struct{}

// WithSubject stores the authenticated user id on the context for downstream consumers.
func WithSubject(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, userID)
}

// SubjectFromContext retrieves the authenticated user id from the context.
func SubjectFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(subjectContextKey{}).(int64)
	return id, ok && id > 0
}
