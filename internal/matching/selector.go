package matching

import (
	"sort"
)

// Limits bounds how many candidates survive each cut.
type Limits struct {
	Final         int
	FemalePreCut  int
	DefaultPreCut int
}

// The pre-cut never trims below Final, so it does not change the output.
// It is applied anyway to keep the selection steps in their historical order.
var DefaultLimits = Limits{
	Final:         5,
	FemalePreCut:  50,
	DefaultPreCut: 5,
}

type ResultKind string

const (
	KindRankedCandidates ResultKind = "ranked_candidates"
	KindPendingMatches   ResultKind = "pending_matches"
)

type ScoredCandidate struct {
	User    UserProfile           `json:"user"`
	Score   int                   `json:"score"`
	Factors *CompatibilityFactors `json:"factors,omitempty"`
}

// Result is one of two variants. Pending is set for KindPendingMatches,
// Candidates for KindRankedCandidates.
type Result struct {
	Kind       ResultKind        `json:"kind"`
	Candidates []ScoredCandidate `json:"candidates"`
	Pending    []ExistingMatch   `json:"pending,omitempty"`
}

func (r *Result) IsPending() bool {
	return r.Kind == KindPendingMatches
}

func (r *Result) Len() int {
	if r.IsPending() {
		return len(r.Pending)
	}
	return len(r.Candidates)
}

func emptyResult() *Result {
	return &Result{Kind: KindRankedCandidates, Candidates: []ScoredCandidate{}}
}

type Selector struct {
	scorer *Scorer
	limits Limits
}

func NewSelector(scorer *Scorer, limits Limits) *Selector {
	return &Selector{scorer: scorer, limits: limits}
}

// FindMatches picks up to Limits.Final candidates for userID. Unknown users
// and exhausted quotas both yield an empty ranked result. Outstanding
// uncontacted matches are returned as-is instead of new candidates.
//
// Candidates with equal scores keep their relative order from users.
func (s *Selector) FindMatches(userID string, users []UserProfile, matches []ExistingMatch) (*Result, error) {
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i := range matches {
		if err := matches[i].Validate(); err != nil {
			return nil, err
		}
	}

	user := findUser(userID, users)
	if user == nil {
		return emptyResult(), nil
	}

	if user.MatchesRemaining <= 0 {
		return emptyResult(), nil
	}

	if pending := PendingMatches(userID, matches); len(pending) > 0 {
		return &Result{Kind: KindPendingMatches, Candidates: []ScoredCandidate{}, Pending: pending}, nil
	}

	candidates := s.filterCandidates(user, users, matches)

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		factors := s.scorer.factors(user, candidate)
		scored = append(scored, ScoredCandidate{
			User:    *candidate,
			Score:   s.scorer.clamp(factors.Total()),
			Factors: factors,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	scored = truncate(scored, s.preCut(user))
	scored = truncate(scored, s.limits.Final)

	return &Result{Kind: KindRankedCandidates, Candidates: scored}, nil
}

// PendingMatches returns the matches owned by userID that were never contacted,
// in their original order.
func PendingMatches(userID string, matches []ExistingMatch) []ExistingMatch {
	var pending []ExistingMatch
	for _, m := range matches {
		if m.UserID == userID && !m.Contacted {
			pending = append(pending, m)
		}
	}
	return pending
}

func (s *Selector) filterCandidates(user *UserProfile, users []UserProfile, matches []ExistingMatch) []*UserProfile {
	seen := make(map[string]struct{})
	for _, m := range matches {
		if m.UserID == user.ID {
			seen[m.MatchedUserID] = struct{}{}
		}
	}

	var candidates []*UserProfile
	for i := range users {
		candidate := &users[i]

		if candidate.ID == user.ID {
			continue
		}
		if candidate.Gender != user.Preferences.Gender {
			continue
		}
		if !user.Preferences.AcceptsAge(candidate.Age) {
			continue
		}
		if _, ok := seen[candidate.ID]; ok {
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates
}

func (s *Selector) preCut(user *UserProfile) int {
	if user.Gender == GenderFemale {
		return s.limits.FemalePreCut
	}
	return s.limits.DefaultPreCut
}

func findUser(userID string, users []UserProfile) *UserProfile {
	for i := range users {
		if users[i].ID == userID {
			return &users[i]
		}
	}
	return nil
}

func truncate(scored []ScoredCandidate, limit int) []ScoredCandidate {
	if limit >= 0 && len(scored) > limit {
		return scored[:limit]
	}
	return scored
}
