package middleware

import (
	"net/http"

	"github.com/andrewpaige1/flashly-api/utils"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"go.uber.org/zap"
)

// EnsureValidToken validates the bearer token when one is sent. Requests
// without a token pass through anonymously; a bad token is rejected.
func EnsureValidToken(v *validator.Validator, log *zap.Logger) func(http.Handler) http.Handler {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Info("EnsureValidToken: rejected token", zap.String("path", r.URL.Path), zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid or expired token")
	}

	mw := jwtmiddleware.New(
		v.ValidateToken,
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)
	return mw.CheckJWT
}
