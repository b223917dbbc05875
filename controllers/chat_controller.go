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

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
	Logger      *slog.Logger
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService, logger *slog.Logger) *ChatController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatController{ChatService: service, Logger: logger.With("component", "controllers.ChatController")}
}

// HandleGetMessages returns the messages of a match, oldest first
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	messages, err := c.ChatService.FetchMessages(r.Context(), matchID)
	if err != nil {
		c.Logger.Error("❌ Error fetching messages", "match", matchID, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleSendMessage sends a message into a match chat
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AccountID string `json:"accountId"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.AccountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing accountId or text")
		return
	}
	matchID := mux.Vars(r)["matchId"]

	message, err := c.ChatService.Send(r.Context(), request.AccountID, matchID, request.Text)
	if errors.Is(err, models.ErrEmptyMessage) {
		utils.WriteJSONError(w, http.StatusBadRequest, "Message text is empty")
		return
	}
	if err != nil {
		c.Logger.Error("❌ Failed to send message", "match", matchID, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, message)
}
