package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrewpaige1/flashly-api/auth"
	"github.com/andrewpaige1/flashly-api/models"
	"github.com/andrewpaige1/flashly-api/service"
	"github.com/andrewpaige1/flashly-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) UserByPublicID(_ context.Context, id string) (*models.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	user, ok := f[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return user, nil
}

func newChain(t *testing.T, users UserLookup, final http.HandlerFunc) (http.Handler, *auth.Issuer) {
	t.Helper()
	issuer, err := auth.NewIssuer("middleware-secret", "flashly-api", "flashly", time.Hour)
	require.NoError(t, err)
	v, err := issuer.Validator()
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	return EnsureValidToken(v, log)(SyncUser(users, log)(final)), issuer
}

func TestAuthChain(t *testing.T) {
	ada := &models.User{ID: 7, PublicID: "ada-id", Username: "ada"}
	users := fakeUsers{"ada-id": ada}

	var seen *models.User
	final := func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
	chain, issuer := newChain(t, users, final)

	token := func(subject string) string {
		s, err := issuer.CreateToken(subject)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name     string
		header   string
		status   int
		wantUser bool
	}{
		{"anonymous", "", http.StatusNoContent, false},
		{"valid token", "Bearer " + token("ada-id"), http.StatusNoContent, true},
		{"garbage token", "Bearer not-a-jwt", http.StatusBadRequest, false},
		{"unknown subject", "Bearer " + token("ghost"), http.StatusBadRequest, false},
		{"store failure", "Bearer " + token("broken"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodGet, "/api/decks/feed", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			chain.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.wantUser {
				require.NotNil(t, seen)
				assert.Equal(t, "ada", seen.Username)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	called := false
	h := RequireUser(func(w http.ResponseWriter, r *http.Request) {
		called = true
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/api/decks", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
	assert.False(t, called)

	r := httptest.NewRequest(http.MethodPost, "/api/decks", nil)
	r = r.WithContext(WithUser(r.Context(), &models.User{ID: 1}))
	w = httptest.NewRecorder()
	h(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/status", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/status", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
