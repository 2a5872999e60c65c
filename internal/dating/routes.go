package dating

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Stateless scoring, no auth or storage
	public := router.PathPrefix("/api/v1/matching").Subrouter()
	public.HandleFunc("/score", handler.Score).Methods("POST")
	public.HandleFunc("/select", handler.Select).Methods("POST")

	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Matches
	api.HandleFunc("/matches/preview", handler.PreviewMatches).Methods("GET")
	api.HandleFunc("/matches/generate", handler.GenerateMatches).Methods("POST")
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	api.HandleFunc("/matches/{id}/view", handler.MarkViewed).Methods("POST")
	api.HandleFunc("/matches/{id}/contact", handler.MarkContacted).Methods("POST")
	api.HandleFunc("/matches/{id}", handler.DeleteMatch).Methods("DELETE")

	// Compatibility
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
}
