package routes

import (
	"unmasked_server/controllers"

	"github.com/gorilla/mux"
)

func RegisterMatchRoutes(r *mux.Router, controller *controllers.MatchController) {
	matchRouter := r.PathPrefix("/api").Subrouter()
	matchRouter.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/matches/{id}/accept", controller.HandleAcceptMatch).Methods("POST")
	matchRouter.HandleFunc("/matches/{id}/reject", controller.HandleRejectMatch).Methods("POST")
	matchRouter.HandleFunc("/preferences", controller.HandleSubmitPreferences).Methods("POST")
}
