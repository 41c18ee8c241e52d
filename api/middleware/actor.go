package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/supplybot/supplybot-backend/api/responses"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

type contextKey string

const ctxActorID contextKey = "actor_id"

// Actor requires a well-formed X-Actor-Id header on every request and makes
// the id available to handlers. Who the actor is allowed to touch is decided
// per draft by the service layer, not here.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(actorIDHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor header"))
				return
			}
			actorID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed actor header"))
				return
			}

			ctx := WithActorID(r.Context(), actorID)
			if logg != nil {
				ctx = logg.WithActorID(ctx, actorID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithActorID injects the actor id into the context.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorID, actorID)
}

// ActorIDFromContext returns the actor id injected by Actor, or uuid.Nil.
func ActorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if id, ok := ctx.Value(ctxActorID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
