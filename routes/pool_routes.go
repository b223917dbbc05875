package routes

import (
	"unmasked_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPoolRoutes sets up the relay endpoints and the pool feed under /api
func RegisterPoolRoutes(r *mux.Router, controller *controllers.PoolController) {
	apiRouter := r.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/join-pool", controller.HandleJoinPool).Methods("POST")
	apiRouter.HandleFunc("/post-confession", controller.HandlePostConfession).Methods("POST")
	apiRouter.HandleFunc("/anonymous-tip", controllers.HandleAnonymousTip).Methods("POST")

	apiRouter.HandleFunc("/pools", controller.HandleListPools).Methods("GET")
	apiRouter.HandleFunc("/pools/{poolKey}/confessions", controller.HandleGetConfessions).Methods("GET")
	apiRouter.HandleFunc("/pools/{poolKey}/confessions/{id}/react", controller.HandleReact).Methods("POST")
}
