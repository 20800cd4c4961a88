package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/services"
)

type SetupHandler struct {
	setupService services.SetupService
	engine       *live.Engine
}

func NewSetupHandler(setupService services.SetupService, engine *live.Engine) *SetupHandler {
	return &SetupHandler{
		setupService: setupService,
		engine:       engine,
	}
}

// CommitSetup записывает новое состояние аукциона и перезапускает машину
// состояний с курсором 0 — это и есть переход "настройка → живой экран".
func (h *SetupHandler) CommitSetup(w http.ResponseWriter, r *http.Request) {
	var input services.CommitSetupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.setupService.CommitSetup(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.engine.Reload(r.Context()); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"teams":   result.Teams,
		"players": result.Players,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PreviewPlayers parses an uploaded CSV file and returns the player records
// without committing anything, mirroring the setup screen's preview counter.
func (h *SetupHandler) PreviewPlayers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, _, err := r.FormFile("players")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing players file: %w", err))
		return
	}
	defer file.Close()

	text, err := io.ReadAll(file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	players := h.setupService.PreviewPlayersCSV(string(text))

	response := jsonResponse{
		"count":   len(players),
		"players": players,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset очищает сохранённое состояние, засевает демо-набор и перезапускает
// аукцион.
func (h *SetupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.setupService.Reset(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.engine.Reload(r.Context()); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": h.engine.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
