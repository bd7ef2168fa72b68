package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashly-api/service"
	"github.com/andrewpaige1/flashly-api/utils"
)

// GET /api/decks/{deckID}/cards
func (h *APIHandler) GetCardsForDeck(w http.ResponseWriter, r *http.Request) {
	cards, err := h.ListCards(r.Context(), r.PathValue("deckID"), viewerID(r))
	if err != nil {
		h.writeError(w, r, "GetCardsForDeck", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"cards": cards})
}

// POST /api/decks/{deckID}/cards
func (h *APIHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FrontText  string `json:"frontText"`
		BackText   string `json:"backText"`
		Difficulty string `json:"difficulty"`
	}
	if !h.decode(w, r, "CreateCard", &req) {
		return
	}

	card, err := h.Service.CreateCard(r.Context(), r.PathValue("deckID"), viewerID(r), service.CardInput{
		FrontText:  req.FrontText,
		BackText:   req.BackText,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.writeError(w, r, "CreateCard", err)
		return
	}
	h.respond(w, r, http.StatusCreated, map[string]interface{}{"card": card})
}

// GET /api/decks/{deckID}/cards/{cardID}
func (h *APIHandler) GetCardByID(w http.ResponseWriter, r *http.Request) {
	card, err := h.GetCard(r.Context(), r.PathValue("deckID"), r.PathValue("cardID"), viewerID(r))
	if err != nil {
		h.writeError(w, r, "GetCardByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"card": card})
}

// PUT /api/decks/{deckID}/cards/{cardID}
func (h *APIHandler) UpdateCardByID(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FrontText  *string `json:"frontText"`
		BackText   *string `json:"backText"`
		Difficulty *string `json:"difficulty"`
	}
	if !h.decode(w, r, "UpdateCardByID", &req) {
		return
	}

	card, err := h.UpdateCard(r.Context(), r.PathValue("deckID"), r.PathValue("cardID"), viewerID(r), service.CardPatch{
		FrontText:  req.FrontText,
		BackText:   req.BackText,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.writeError(w, r, "UpdateCardByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"card": card})
}

// DELETE /api/decks/{deckID}/cards/{cardID}
func (h *APIHandler) DeleteCardByID(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteCard(r.Context(), r.PathValue("deckID"), r.PathValue("cardID"), viewerID(r)); err != nil {
		h.writeError(w, r, "DeleteCardByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, message("Card deleted"))
}

// POST /api/decks/{deckID}/cards/{cardID}/review
func (h *APIHandler) ReviewCardByID(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Correct *bool `json:"correct"`
	}
	if !h.decode(w, r, "ReviewCardByID", &req) {
		return
	}
	if req.Correct == nil {
		utils.WriteError(w, http.StatusBadRequest, "correct is required")
		return
	}

	card, err := h.ReviewCard(r.Context(), r.PathValue("deckID"), r.PathValue("cardID"), viewerID(r), *req.Correct)
	if err != nil {
		h.writeError(w, r, "ReviewCardByID", err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]interface{}{"card": card})
}
