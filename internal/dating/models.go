// internal/dating/models.go

package dating

import (
	"time"

	"github.com/lib/pq"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

// Match is a stored pairing shown to UserID
type Match struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	MatchedUserID string    `json:"matched_user_id" db:"matched_user_id"`
	Score         *int      `json:"compatibility_score,omitempty" db:"compatibility_score"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	Viewed        bool      `json:"viewed" db:"viewed"`
	Contacted     bool      `json:"contacted" db:"contacted"`
}

// ToExisting converts the row into the record the selector consumes
func (m *Match) ToExisting() matching.ExistingMatch {
	return matching.ExistingMatch{
		ID:            m.ID,
		UserID:        m.UserID,
		MatchedUserID: m.MatchedUserID,
		Timestamp:     m.CreatedAt,
		Viewed:        m.Viewed,
		Contacted:     m.Contacted,
	}
}

// userRow mirrors the users table. Nullable columns stay pointers so that a
// half-filled profile fails validation instead of scoring as zeros.
type userRow struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Age              *int           `db:"age"`
	Gender           *string        `db:"gender"`
	Location         *string        `db:"location"`
	Interests        pq.StringArray `db:"interests"`
	PrefMinAge       *int           `db:"pref_min_age"`
	PrefMaxAge       *int           `db:"pref_max_age"`
	PrefGender       *string        `db:"pref_gender"`
	PrefInterests    pq.StringArray `db:"pref_interests"`
	PrefLocation     *string        `db:"pref_location"`
	PrefMaxDistance  *int           `db:"pref_max_distance"`
	MatchesRemaining int            `db:"matches_remaining"`
	LastMatchRequest *time.Time     `db:"last_match_request"`
}

func (r *userRow) toInput() *matching.ProfileInput {
	id := r.ID
	remaining := r.MatchesRemaining

	interests := []string(r.Interests)
	if interests == nil {
		interests = []string{}
	}

	in := &matching.ProfileInput{
		ID:               &id,
		Name:             r.Name,
		Age:              r.Age,
		Gender:           genderPtr(r.Gender),
		Location:         r.Location,
		Interests:        interests,
		MatchesRemaining: &remaining,
		LastMatchRequest: r.LastMatchRequest,
	}

	if r.PrefMinAge != nil || r.PrefMaxAge != nil || r.PrefGender != nil {
		prefs := &matching.PreferencesInput{
			MinAge:    r.PrefMinAge,
			MaxAge:    r.PrefMaxAge,
			Gender:    genderPtr(r.PrefGender),
			Interests: []string(r.PrefInterests),
		}
		if r.PrefLocation != nil {
			prefs.Location = *r.PrefLocation
		}
		if r.PrefMaxDistance != nil {
			prefs.MaxDistance = *r.PrefMaxDistance
		}
		in.Preferences = prefs
	}

	return in
}

func genderPtr(s *string) *matching.Gender {
	if s == nil {
		return nil
	}
	g := matching.Gender(*s)
	return &g
}

// Snapshot is the data one selection runs against
type Snapshot struct {
	Users   []matching.UserProfile
	Matches []matching.ExistingMatch
}

// user returns the profile with the given id, or nil
func (s *Snapshot) user(id string) *matching.UserProfile {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// GeneratedMatch is a freshly stored match with the profile and score that produced it
type GeneratedMatch struct {
	Match   *Match                         `json:"match"`
	User    matching.UserProfile           `json:"user"`
	Score   int                            `json:"score"`
	Factors *matching.CompatibilityFactors `json:"factors,omitempty"`
}

// GenerateResult is returned by GenerateMatches. Pending is set when the user
// still has uncontacted matches and nothing new was created.
type GenerateResult struct {
	Kind    matching.ResultKind      `json:"kind"`
	Matches []GeneratedMatch         `json:"matches"`
	Pending []matching.ExistingMatch `json:"pending,omitempty"`
}

// CompatibilityReport is the breakdown between two stored users
type CompatibilityReport struct {
	UserID  string                         `json:"user_id"`
	OtherID string                         `json:"other_id"`
	Score   int                            `json:"score"`
	Factors *matching.CompatibilityFactors `json:"factors"`
}

type MatchStats struct {
	TotalUsers       int64     `json:"total_users" db:"total_users"`
	UsersWithQuota   int64     `json:"users_with_quota" db:"users_with_quota"`
	TotalMatches     int64     `json:"total_matches" db:"total_matches"`
	ViewedMatches    int64     `json:"viewed_matches" db:"viewed_matches"`
	ContactedMatches int64     `json:"contacted_matches" db:"contacted_matches"`
	AverageScore     float64   `json:"average_score" db:"average_score"`
	LastUpdated      time.Time `json:"last_updated" db:"-"`
}
