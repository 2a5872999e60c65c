package matching

import (
	"strings"
)

// Weights holds the point values of each compatibility factor.
type Weights struct {
	AgeMatch      int // per direction
	GenderMatch   int
	InterestsMax  int
	LocationMatch int
	MaxScore      int
}

var DefaultWeights = Weights{
	AgeMatch:      15,
	GenderMatch:   20,
	InterestsMax:  30,
	LocationMatch: 20,
	MaxScore:      100,
}

// CompatibilityFactors breaks a score down by factor, in points.
type CompatibilityFactors struct {
	AgeMatch       int `json:"age_match"`
	GenderMatch    int `json:"gender_match"`
	InterestsMatch int `json:"interests_match"`
	LocationMatch  int `json:"location_match"`
}

// Total sums the factors without clamping.
func (f CompatibilityFactors) Total() int {
	return f.AgeMatch + f.GenderMatch + f.InterestsMatch + f.LocationMatch
}

type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns the compatibility of two profiles in [0, MaxScore].
func (s *Scorer) Score(user1, user2 *UserProfile) (int, error) {
	score, _, err := s.Calculate(user1, user2)
	return score, err
}

func (s *Scorer) Calculate(user1, user2 *UserProfile) (int, *CompatibilityFactors, error) {
	if err := user1.Validate(); err != nil {
		return 0, nil, err
	}
	if err := user2.Validate(); err != nil {
		return 0, nil, err
	}

	factors := s.factors(user1, user2)
	return s.clamp(factors.Total()), factors, nil
}

// factors assumes both profiles have already been validated.
func (s *Scorer) factors(user1, user2 *UserProfile) *CompatibilityFactors {
	factors := &CompatibilityFactors{}

	// Age is checked in both directions independently
	if user1.Preferences.AcceptsAge(user2.Age) {
		factors.AgeMatch += s.weights.AgeMatch
	}
	if user2.Preferences.AcceptsAge(user1.Age) {
		factors.AgeMatch += s.weights.AgeMatch
	}

	if user1.Preferences.Gender == user2.Gender && user2.Preferences.Gender == user1.Gender {
		factors.GenderMatch = s.weights.GenderMatch
	}

	factors.InterestsMatch = s.interestsScore(user1.Interests, user2.Interests)

	if cityToken(user1.Location) == cityToken(user2.Location) {
		factors.LocationMatch = s.weights.LocationMatch
	}

	return factors
}

// interestsScore is floor(shared/larger * InterestsMax), or 0 when both sets are empty.
func (s *Scorer) interestsScore(interests1, interests2 []string) int {
	set1 := toSet(interests1)
	set2 := toSet(interests2)

	denom := len(set1)
	if len(set2) > denom {
		denom = len(set2)
	}
	if denom == 0 {
		return 0
	}

	shared := 0
	for interest := range set1 {
		if _, ok := set2[interest]; ok {
			shared++
		}
	}

	// Integer division is the exact floor for non-negative operands.
	score := shared * s.weights.InterestsMax / denom
	if score > s.weights.InterestsMax {
		score = s.weights.InterestsMax
	}
	return score
}

func (s *Scorer) clamp(score int) int {
	if score > s.weights.MaxScore {
		return s.weights.MaxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func cityToken(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return city
}
