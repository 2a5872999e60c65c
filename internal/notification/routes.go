// internal/notification/routes.go

package notification

import (
	"github.com/gorilla/mux"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
)

// RegisterRoutes mounts the notification endpoints. hub may be nil when websockets are disabled.
func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/notifications", handler.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", handler.MarkAsRead).Methods("POST")

	if hub != nil {
		api.HandleFunc("/ws", hub.ServeWS).Methods("GET")
	}
}
