package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"ktpPortalAPI/internal/leetcode"
	"ktpPortalAPI/middleware"
	"ktpPortalAPI/services"
)

type LeetCodeHandler struct {
	leetcodeService *services.LeetCodeService
	runHistory      *services.RunHistoryService
}

func NewLeetCodeHandler(leetcodeService *services.LeetCodeService, runHistory *services.RunHistoryService) *LeetCodeHandler {
	return &LeetCodeHandler{
		leetcodeService: leetcodeService,
		runHistory:      runHistory,
	}
}

// TriggerUpdate runs a full sync pass on demand. Admin only. A body of
// {"initialScrape": true} zeroes every updated user's offsets, making the
// fetched totals the new baseline.
func (h *LeetCodeHandler) TriggerUpdate(w http.ResponseWriter, r *http.Request) {
	// A run fetches every enrolled user with retries; give it room.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	uid, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if !h.requireAdmin(ctx, w, uid) {
		return
	}

	var body struct {
		InitialScrape bool `json:"initialScrape"`
	}
	if r.Body != nil {
		// Body is optional; a missing or empty body means a plain update.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	log.Printf("Manual LeetCode update triggered by %s (initialScrape=%v)", uid, body.InitialScrape)

	summary, err := h.leetcodeService.Run(ctx, leetcode.RunOptions{ClearOffsets: body.InitialScrape})
	if err != nil {
		log.Printf("Manual LeetCode update error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "LeetCode update failed")
		return
	}

	services.RecordRunMetrics("manual", summary)
	if h.runHistory != nil {
		if err := h.runHistory.RecordRun(ctx, "manual", summary); err != nil {
			log.Printf("Failed to record manual run %s: %v", summary.RunID, err)
		}
	}

	message := fmt.Sprintf("Updated %d LeetCode profiles", summary.Updated)
	if body.InitialScrape {
		message = fmt.Sprintf("Initial scrape completed for %d LeetCode profiles", summary.Updated)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"message":       message,
		"initialScrape": body.InitialScrape,
		"updated":       summary.Updated,
		"failed":        summary.Failed,
		"skipped":       summary.Skipped,
	})
}

// ResetOffsets sets one user's offsets to their current answers. Admin only.
func (h *LeetCodeHandler) ResetOffsets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	uid, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if !h.requireAdmin(ctx, w, uid) {
		return
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Printf("Admin %s resetting leetcode offsets for %q", uid, body.Username)

	if err := h.leetcodeService.ResetOffsets(ctx, body.Username); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingUsername):
			respondWithError(w, http.StatusBadRequest, "Target username not provided")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User with username "+body.Username+" not found")
		case errors.Is(err, services.ErrNoAnswers):
			respondWithError(w, http.StatusBadRequest, "Target user has no leetcode answers to reset")
		default:
			log.Printf("Reset offsets error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to reset offsets")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"message":  "Offsets reset for " + body.Username,
		"username": body.Username,
	})
}

// GetRunHistory lists recent sync runs. Admin only.
func (h *LeetCodeHandler) GetRunHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if !h.requireAdmin(ctx, w, uid) {
		return
	}

	if h.runHistory == nil {
		respondWithError(w, http.StatusNotImplemented, "Run history is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.runHistory.ListRuns(ctx, limit)
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (h *LeetCodeHandler) requireAdmin(ctx context.Context, w http.ResponseWriter, uid string) bool {
	isAdmin, err := h.leetcodeService.IsAdmin(ctx, uid)
	if err != nil {
		log.Printf("Failed to check admin flag for %s: %v", uid, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to verify admin status")
		return false
	}
	if !isAdmin {
		respondWithError(w, http.StatusForbidden, "User is not an admin")
		return false
	}
	return true
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
