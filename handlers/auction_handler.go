package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/auction-system/live"
)

type AuctionHandler struct {
	engine *live.Engine
}

func NewAuctionHandler(engine *live.Engine) *AuctionHandler {
	return &AuctionHandler{engine: engine}
}

// GetState returns the current auction snapshot: the player on the block,
// the countdown, the bid and the team grid.
func (h *AuctionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": h.engine.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type placeBidInput struct {
	TeamID string `json:"team_id"`
}

// PlaceBid регистрирует жест ставки от имени команды. Ставка, на которую не
// хватает бюджета, молча игнорируется: ответ — актуальный снапшот в любом
// случае.
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var input placeBidInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID == "" {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}

	snapshot, err := h.engine.PlaceBid(input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Skip forces the current player UNSOLD and advances, discarding any
// leading bid.
func (h *AuctionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.engine.Skip(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Next advances the cursor to the following player.
func (h *AuctionHandler) Next(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.engine.Next(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemainingPlayers returns the unsold players at or after the cursor,
// optionally filtered by the category query parameter.
func (h *AuctionHandler) RemainingPlayers(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	players := h.engine.RemainingPlayers(category)

	response := jsonResponse{
		"count":   len(players),
		"players": players,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
