package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a span for a service operation on the named tracer.
//
//	ctx, span := telemetry.StartSpan(ctx, "meetupd/services/team", "team.OpenTeam",
//	    attribute.Int64(telemetry.AttrUserID, userID),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records err on the span and marks the span as failed.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named business event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Span attribute keys.
const (
	AttrUserID       = "user.id"
	AttrTargetUserID = "user.target_id"
	AttrTeamID       = "team.id"
	AttrTeamUserID   = "team_user.id"
	AttrContestID    = "contest.id"
	AttrTicketCount  = "ticket.count"
	AttrRole         = "team_user.role"
)
