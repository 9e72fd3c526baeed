package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/services"
	"github.com/Dosada05/gameet/utils"
)

// UserLoader resolves the account behind a token. services.UserService satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Authenticator struct {
	tokens *utils.TokenManager
	users  UserLoader
	logger *slog.Logger
}

func NewAuthenticator(tokens *utils.TokenManager, users UserLoader, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CheckJWT verifies the bearer token and loads the user so that IsAdmin reflects the
// current database row rather than what was true when the token was signed.
func (a *Authenticator) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, MsgTokenMissing)
			return
		}

		claims, err := a.tokens.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, MsgTokenInvalid)
			return
		}

		user, err := a.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, MsgTokenInvalid)
				return
			}
			a.logger.Error("failed to load token user", slog.Int("user_id", claims.UserID), slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, MsgServerError)
			return
		}

		actor := models.Actor{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireAdmin must run after CheckJWT.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, MsgTokenMissing)
			return
		}
		if !actor.IsAdmin {
			writeError(w, http.StatusForbidden, MsgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
