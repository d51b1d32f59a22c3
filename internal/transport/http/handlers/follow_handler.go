package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/service"
	"github.com/vedran77/orbit/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid account identifier")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if err := h.followService.Follow(r.Context(), accountID, targetID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Following"})
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid account identifier")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if err := h.followService.Unfollow(r.Context(), accountID, targetID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed"})
}
