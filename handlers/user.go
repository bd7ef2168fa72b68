package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashly-api/models"
	"github.com/andrewpaige1/flashly-api/service"
)

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// POST /api/register
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if !h.decode(w, r, "Register", &req) {
		return
	}

	user, token, err := h.Service.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(w, r, "Register", err)
		return
	}
	h.respond(w, r, http.StatusCreated, authResponse{User: user, Token: token})
}

// POST /api/login
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, "Login", &req) {
		return
	}

	user, token, err := h.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "Login", err)
		return
	}
	h.respond(w, r, http.StatusOK, authResponse{User: user, Token: token})
}

// GET /api/users/{userID}
func (h *APIHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Profile(r.Context(), r.PathValue("userID"), viewerID(r))
	if err != nil {
		h.writeError(w, r, "GetProfile", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"profile": profile})
}

// PUT /api/users/{userID}
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
	}
	if !h.decode(w, r, "UpdateUser", &req) {
		return
	}

	user, err := h.UpdateProfile(r.Context(), r.PathValue("userID"), viewerID(r), service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Bio:       req.Bio,
	})
	if err != nil {
		h.writeError(w, r, "UpdateUser", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"user": user})
}

// PUT /api/change_password
func (h *APIHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !h.decode(w, r, "UpdatePassword", &req) {
		return
	}

	if err := h.ChangePassword(r.Context(), viewerID(r), req.OldPassword, req.NewPassword); err != nil {
		h.writeError(w, r, "UpdatePassword", err)
		return
	}
	h.respond(w, r, http.StatusOK, message("Password changed"))
}

// POST /api/users/{userID}/follow
func (h *APIHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Follow(r.Context(), viewerID(r), r.PathValue("userID")); err != nil {
		h.writeError(w, r, "FollowUser", err)
		return
	}
	h.respond(w, r, http.StatusCreated, message("Followed user"))
}

// DELETE /api/users/{userID}/follow
func (h *APIHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Unfollow(r.Context(), viewerID(r), r.PathValue("userID")); err != nil {
		h.writeError(w, r, "UnfollowUser", err)
		return
	}
	h.respond(w, r, http.StatusOK, message("Unfollowed user"))
}

// GET /api/users/{userID}/followers
func (h *APIHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ListFollowers(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.writeError(w, r, "GetFollowers", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"users": users})
}

// GET /api/users/{userID}/following
func (h *APIHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	users, err := h.ListFollowing(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.writeError(w, r, "GetFollowing", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"users": users})
}
