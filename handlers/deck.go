package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashly-api/service"
	"github.com/andrewpaige1/flashly-api/utils"
)

// GET /api/decks/explore
func (h *APIHandler) GetExplore(w http.ResponseWriter, r *http.Request) {
	filter := service.ExploreFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	page, err := h.Explore(r.Context(), viewerID(r), filter, utils.ParsePage(r))
	if err != nil {
		h.writeError(w, r, "GetExplore", err)
		return
	}
	h.respond(w, r, http.StatusOK, page)
}

// GET /api/decks/feed
func (h *APIHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.Feed(r.Context(), viewerID(r), utils.ParsePage(r))
	if err != nil {
		h.writeError(w, r, "GetFeed", err)
		return
	}
	h.respond(w, r, http.StatusOK, page)
}

// GET /api/decks
func (h *APIHandler) GetOwnDecks(w http.ResponseWriter, r *http.Request) {
	page, err := h.ListOwnDecks(r.Context(), viewerID(r), utils.ParsePage(r))
	if err != nil {
		h.writeError(w, r, "GetOwnDecks", err)
		return
	}
	h.respond(w, r, http.StatusOK, page)
}

// POST /api/decks
func (h *APIHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		PublishStatus string   `json:"publishStatus"`
		Categories    []string `json:"categories"`
	}
	if !h.decode(w, r, "CreateDeck", &req) {
		return
	}

	deck, err := h.Service.CreateDeck(r.Context(), viewerID(r), service.DeckInput{
		Name:          req.Name,
		Description:   req.Description,
		PublishStatus: req.PublishStatus,
		Categories:    req.Categories,
	})
	if err != nil {
		h.writeError(w, r, "CreateDeck", err)
		return
	}
	h.respond(w, r, http.StatusCreated, map[string]interface{}{"deck": deck})
}

// GET /api/decks/{deckID}
func (h *APIHandler) GetDeckByID(w http.ResponseWriter, r *http.Request) {
	deck, err := h.GetDeck(r.Context(), r.PathValue("deckID"), viewerID(r))
	if err != nil {
		h.writeError(w, r, "GetDeckByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"deck": deck})
}

// PUT /api/decks/{deckID}
func (h *APIHandler) UpdateDeckByID(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          *string   `json:"name"`
		Description   *string   `json:"description"`
		PublishStatus *string   `json:"publishStatus"`
		Categories    *[]string `json:"categories"`
	}
	if !h.decode(w, r, "UpdateDeckByID", &req) {
		return
	}

	deck, err := h.UpdateDeck(r.Context(), r.PathValue("deckID"), viewerID(r), service.DeckPatch{
		Name:          req.Name,
		Description:   req.Description,
		PublishStatus: req.PublishStatus,
		Categories:    req.Categories,
	})
	if err != nil {
		h.writeError(w, r, "UpdateDeckByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"deck": deck})
}

// DELETE /api/decks/{deckID}
func (h *APIHandler) DeleteDeckByID(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteDeck(r.Context(), r.PathValue("deckID"), viewerID(r)); err != nil {
		h.writeError(w, r, "DeleteDeckByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, message("Deck deleted"))
}

// GET /api/categories
func (h *APIHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, "GetCategories", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GET /api/status
func (h *APIHandler) Status(w http.ResponseWriter, r *http.Request) {
	if err := h.Ping(r.Context()); err != nil {
		h.writeError(w, r, "Status", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
