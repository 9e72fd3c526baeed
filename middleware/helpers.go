package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dosada05/gameet/models"
)

type contextKey string

const (
	actorContextKey contextKey = "actor"
	actorSlotKey    contextKey = "actor_slot"
)

// actorSlot lets outer middleware see the actor that CheckJWT attaches further down the chain.
type actorSlot struct {
	actor models.Actor
}

// Messages returned to clients. Handlers reuse them so every layer answers the same text.
const (
	MsgTokenMissing    = "Token manquant"
	MsgTokenInvalid    = "Token invalide"
	MsgForbidden       = "Accès refusé"
	MsgServerError     = "Erreur serveur"
	MsgTooManyRequests = "Trop de requêtes"
)

func WithActor(ctx context.Context, actor models.Actor) context.Context {
	if slot, ok := ctx.Value(actorSlotKey).(*actorSlot); ok {
		slot.actor = actor
	}
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the authenticated caller set by CheckJWT.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok && actor.ID > 0
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
