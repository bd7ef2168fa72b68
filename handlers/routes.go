package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashly-api/middleware"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// NewRouter mounts every route under /api. Tokens are optional on the way
// in; routes that act as a user are wrapped in RequireUser.
func NewRouter(h *APIHandler, v *validator.Validator) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireUser

	mux.HandleFunc("GET /api/status", h.Status)

	// Accounts
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("PUT /api/change_password", auth(h.UpdatePassword))

	// Users
	mux.HandleFunc("GET /api/users/{userID}", h.GetProfile)
	mux.HandleFunc("PUT /api/users/{userID}", auth(h.UpdateUser))
	mux.HandleFunc("GET /api/users/{userID}/followers", h.GetFollowers)
	mux.HandleFunc("GET /api/users/{userID}/following", h.GetFollowing)
	mux.HandleFunc("POST /api/users/{userID}/follow", auth(h.FollowUser))
	mux.HandleFunc("DELETE /api/users/{userID}/follow", auth(h.UnfollowUser))
	mux.HandleFunc("DELETE /api/users/{userID}/unfollow", auth(h.UnfollowUser))

	// Decks
	mux.HandleFunc("GET /api/decks/explore", h.GetExplore)
	mux.HandleFunc("GET /api/decks/feed", auth(h.GetFeed))
	mux.HandleFunc("GET /api/decks", auth(h.GetOwnDecks))
	mux.HandleFunc("POST /api/decks", auth(h.CreateDeck))
	mux.HandleFunc("GET /api/decks/{deckID}", h.GetDeckByID)
	mux.HandleFunc("PUT /api/decks/{deckID}", auth(h.UpdateDeckByID))
	mux.HandleFunc("DELETE /api/decks/{deckID}", auth(h.DeleteDeckByID))
	mux.HandleFunc("GET /api/categories", h.GetCategories)

	// Cards
	mux.HandleFunc("GET /api/decks/{deckID}/cards", h.GetCardsForDeck)
	mux.HandleFunc("POST /api/decks/{deckID}/cards", auth(h.CreateCard))
	mux.HandleFunc("GET /api/decks/{deckID}/cards/{cardID}", h.GetCardByID)
	mux.HandleFunc("PUT /api/decks/{deckID}/cards/{cardID}", auth(h.UpdateCardByID))
	mux.HandleFunc("DELETE /api/decks/{deckID}/cards/{cardID}", auth(h.DeleteCardByID))
	mux.HandleFunc("POST /api/decks/{deckID}/cards/{cardID}/review", auth(h.ReviewCardByID))

	var handler http.Handler = mux
	handler = middleware.SyncUser(h.Service, h.Log)(handler)
	handler = middleware.EnsureValidToken(v, h.Log)(handler)
	handler = middleware.RequestLogger(h.Log)(handler)
	return handler
}
