package routes

import (
	"unmasked_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, controller *controllers.ChatController) {
	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/{matchId}/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/{matchId}/messages", controller.HandleSendMessage).Methods("POST")
}
