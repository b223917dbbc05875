package routes

import (
	"unmasked_server/controllers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up the service-level routes of the relay
func RegisterRoutes(r *mux.Router, operator string) {
	r.HandleFunc("/health", controllers.HealthCheckHandler(operator)).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/privacy-policy", PrivacyPolicyHandler(operator)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
