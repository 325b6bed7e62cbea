package services

import "context"

type contextKey string

const actorKey contextKey = "actor"

// WithActor tags ctx with the username performing the operation; it ends up
// in the audit trail.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey, username)
}

// ActorFrom returns the actor stored in ctx, or "system" when none is set.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
