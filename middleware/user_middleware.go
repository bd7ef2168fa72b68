package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrewpaige1/flashly-api/models"
	"github.com/andrewpaige1/flashly-api/service"
	"github.com/andrewpaige1/flashly-api/utils"
	"go.uber.org/zap"
)

type contextKey string

const userKey contextKey = "user"

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	UserByPublicID(ctx context.Context, id string) (*models.User, error)
}

// SyncUser loads the user named by the token subject and attaches it to
// the request context. Anonymous requests are passed on untouched.
func SyncUser(users UserLookup, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := utils.GetSubject(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByPublicID(r.Context(), subject)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					// token outlived its account
					log.Info("SyncUser: unknown subject", zap.String("subject", subject))
					utils.WriteError(w, http.StatusBadRequest, "Invalid or expired token")
					return
				}
				log.Error("SyncUser: user lookup failed", zap.String("subject", subject), zap.Error(err))
				utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects requests that carry no authenticated user.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			utils.WriteError(w, http.StatusBadRequest, "Authentication required")
			return
		}
		next(w, r)
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
