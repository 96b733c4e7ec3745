package handlers

import (
	"context"
	"net/http"
	"time"

	"ktpPortalAPI/middleware"
	"ktpPortalAPI/services"
)

type LeaderboardHandler struct {
	leetcodeService *services.LeetCodeService
}

func NewLeaderboardHandler(leetcodeService *services.LeetCodeService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leetcodeService: leetcodeService,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	board, err := h.leetcodeService.Leaderboard(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
