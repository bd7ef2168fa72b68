package handlers

import (
	"errors"
	"net/http"

	"github.com/andrewpaige1/flashly-api/middleware"
	"github.com/andrewpaige1/flashly-api/service"
	"github.com/andrewpaige1/flashly-api/utils"
	"go.uber.org/zap"
)

// APIHandler serves the JSON API on top of the domain service.
type APIHandler struct {
	*service.Service
	Log *zap.Logger
}

// viewerID is the internal id of the signed-in user, or zero.
func viewerID(r *http.Request) uint {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return 0
}

func (h *APIHandler) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := utils.WriteJSON(w, status, v); err != nil {
		h.Log.Warn("respond: encode failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}

// writeError maps a service error to its status code. Store failures are
// logged and hidden behind a generic message.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrConflict):
		status = http.StatusBadRequest
	default:
		h.Log.Error(op+": request failed", zap.String("path", r.URL.Path), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.Log.Debug(op+": rejected", zap.Int("status", status), zap.Error(err))
	utils.WriteError(w, status, err.Error())
}

func (h *APIHandler) decode(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		h.Log.Debug(op+": invalid request body", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
