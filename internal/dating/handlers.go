package dating

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

type Handler struct {
	service  Service
	scorer   *matching.Scorer
	selector *matching.Selector
}

// NewHandler serves the stored-data routes through service and the stateless
// score/select routes with a scorer and selector built from opts.
func NewHandler(service Service, opts Options) *Handler {
	scorer := matching.NewScorer(opts.Weights)
	return &Handler{
		service:  service,
		scorer:   scorer,
		selector: matching.NewSelector(scorer, opts.Limits),
	}
}

// respondWithServiceError maps service errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	var vErr *matching.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.RespondWithDetailedError(w, http.StatusBadRequest, vErr.Error(), vErr)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMatchNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrQuotaExhausted):
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrLocked):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[matching] %s: %v", fallback, err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) PreviewMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.service.PreviewMatches(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to preview matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.service.GenerateMatches(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to generate matches")
		return
	}

	status := http.StatusCreated
	if result.Kind == matching.KindPendingMatches {
		status = http.StatusOK
	}
	utils.RespondWithJSON(w, status, result)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	matches, err := h.service.GetMatches(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.MarkViewed(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondWithServiceError(w, err, "Failed to update match")
		return
	}

	utils.MessageResponse(w, "Match marked as viewed", http.StatusOK)
}

func (h *Handler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.MarkContacted(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondWithServiceError(w, err, "Failed to update match")
		return
	}

	utils.MessageResponse(w, "Match marked as contacted", http.StatusOK)
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.DeleteMatch(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondWithServiceError(w, err, "Failed to delete match")
		return
	}

	utils.MessageResponse(w, "Match deleted", http.StatusOK)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	report, err := h.service.Compatibility(r.Context(), userID, mux.Vars(r)["userId"])
	if err != nil {
		respondWithServiceError(w, err, "Failed to calculate compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to get stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// Score rates two profiles posted in the body. Nothing is read from storage.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user1, err := req.User1.Build()
	if err != nil {
		respondWithServiceError(w, err, "Failed to score profiles")
		return
	}
	user2, err := req.User2.Build()
	if err != nil {
		respondWithServiceError(w, err, "Failed to score profiles")
		return
	}

	score, factors, err := h.scorer.Calculate(user1, user2)
	if err != nil {
		respondWithServiceError(w, err, "Failed to score profiles")
		return
	}
	recordCompatibilityScore(score)

	utils.RespondWithJSON(w, http.StatusOK, ScoreResponse{Score: score, Factors: factors})
}

// Select runs match selection over the users and matches posted in the body.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := matching.BuildProfiles(req.Users)
	if err != nil {
		respondWithServiceError(w, err, "Failed to select matches")
		return
	}
	matches, err := matching.BuildMatches(req.Matches)
	if err != nil {
		respondWithServiceError(w, err, "Failed to select matches")
		return
	}

	result, err := h.selector.FindMatches(req.UserID, users, matches)
	if err != nil {
		respondWithServiceError(w, err, "Failed to select matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}
