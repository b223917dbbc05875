package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"unmasked_server/models"
	"unmasked_server/services"
	"unmasked_server/utils"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match-related actions
type MatchController struct {
	MatchService *services.MatchService
	Logger       *slog.Logger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, logger *slog.Logger) *MatchController {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchController{MatchService: matchService, Logger: logger.With("component", "controllers.MatchController")}
}

// HandleGetMatches fetches the matches computed for accountId
func (c *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "accountId is required")
		return
	}

	matches, err := c.MatchService.FetchMatches(r.Context(), accountID)
	if err != nil {
		c.Logger.Error("❌ Error fetching matches", "account", accountID, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch matches")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// HandleAcceptMatch accepts a pending match
func (c *MatchController) HandleAcceptMatch(w http.ResponseWriter, r *http.Request) {
	c.handleDecision(w, r, c.MatchService.Accept)
}

// HandleRejectMatch rejects a pending match
func (c *MatchController) HandleRejectMatch(w http.ResponseWriter, r *http.Request) {
	c.handleDecision(w, r, c.MatchService.Reject)
}

func (c *MatchController) handleDecision(w http.ResponseWriter, r *http.Request, decide func(accountID, matchID string) (models.Match, error)) {
	var request struct {
		AccountID string `json:"accountId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.AccountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing accountId")
		return
	}
	matchID := mux.Vars(r)["id"]

	match, err := decide(request.AccountID, matchID)
	if errors.Is(err, models.ErrMatchNotFound) {
		// Load the list once if this actor has not fetched it yet.
		if _, fetchErr := c.MatchService.FetchMatches(r.Context(), request.AccountID); fetchErr == nil {
			match, err = decide(request.AccountID, matchID)
		}
	}
	if errors.Is(err, models.ErrMatchNotFound) {
		utils.WriteJSONError(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to update match")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, match)
}

// HandleSubmitPreferences stores the actor's matching preferences
func (c *MatchController) HandleSubmitPreferences(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AccountID   string                  `json:"accountId"`
		Preferences models.MatchPreferences `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.AccountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing accountId or preferences")
		return
	}

	if err := c.MatchService.SubmitPreferences(r.Context(), request.AccountID, request.Preferences); err != nil {
		c.Logger.Error("❌ Error saving preferences", "account", request.AccountID, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"success": true})
}
