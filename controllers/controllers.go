package controllers

import (
	"net/http"

	"unmasked_server/utils"
)

// HealthCheckHandler reports liveness and the operator identity in use.
func HealthCheckHandler(operator string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok", "operator": operator})
	}
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the UnMasked relay."})
}
