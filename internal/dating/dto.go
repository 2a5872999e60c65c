// internal/dating/dto.go

package dating

import (
	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

// Profiles inside requests are checked by matching's own validation
// boundary, so only top-level fields carry tags here.

type ScoreRequest struct {
	User1 *matching.ProfileInput `json:"user1"`
	User2 *matching.ProfileInput `json:"user2"`
}

type ScoreResponse struct {
	Score   int                            `json:"score"`
	Factors *matching.CompatibilityFactors `json:"factors"`
}

type SelectRequest struct {
	UserID  string                   `json:"user_id" validate:"required"`
	Users   []*matching.ProfileInput `json:"users"`
	Matches []*matching.MatchInput   `json:"matches"`
}
