// internal/notification/handlers.go

package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetNotifications retrieves notifications for the authenticated user
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifications, err := h.service.GetNotifications(r.Context(), userID, limit, unreadOnly)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	utils.SuccessResponse(w, notifications, http.StatusOK)
}

// MarkAsRead marks a notification as read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID := mux.Vars(r)["id"]
	if notificationID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark as read")
		return
	}

	utils.MessageResponse(w, "Notification marked as read", http.StatusOK)
}
