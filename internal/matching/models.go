// internal/matching/models.go
// Typed records consumed by the scorer and selector

package matching

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Preferences describes what a user is looking for. Only Gender and the
// age bounds take part in scoring and filtering.
type Preferences struct {
	MinAge      int      `json:"min_age" validate:"gte=0"`
	MaxAge      int      `json:"max_age" validate:"gte=0"`
	Gender      Gender   `json:"gender" validate:"required,oneof=male female other"`
	Interests   []string `json:"interests,omitempty"`
	Location    string   `json:"location,omitempty"`
	MaxDistance int      `json:"max_distance,omitempty"`
}

// AcceptsAge reports whether age falls within the inclusive preferred bounds.
func (p Preferences) AcceptsAge(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}

type UserProfile struct {
	ID               string      `json:"id" validate:"required"`
	Name             string      `json:"name,omitempty"`
	Age              int         `json:"age" validate:"gte=0"`
	Gender           Gender      `json:"gender" validate:"required,oneof=male female other"`
	Location         string      `json:"location"`
	Interests        []string    `json:"interests"`
	Preferences      Preferences `json:"preferences"`
	MatchesRemaining int         `json:"matches_remaining" validate:"gte=0"`
	LastMatchRequest *time.Time  `json:"last_match_request,omitempty"`
}

// ExistingMatch records that UserID was shown MatchedUserID. It is
// directional; the reverse pairing is a separate record.
type ExistingMatch struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id" validate:"required"`
	MatchedUserID string    `json:"matched_user_id" db:"matched_user_id" validate:"required"`
	Timestamp     time.Time `json:"timestamp" db:"created_at"`
	Viewed        bool      `json:"viewed" db:"viewed"`
	Contacted     bool      `json:"contacted" db:"contacted"`
}

// Validate checks a profile built in code. Zero-valued ints cannot be told
// apart from missing ones here; decode untrusted input through ProfileInput.
func (u *UserProfile) Validate() error {
	if u == nil {
		return &ValidationError{Entity: EntityUser, Field: "profile", Reason: "is required"}
	}
	return validateRecord(EntityUser, u.ID, u)
}

func (m *ExistingMatch) Validate() error {
	if m == nil {
		return &ValidationError{Entity: EntityMatch, Field: "match", Reason: "is required"}
	}
	return validateRecord(EntityMatch, m.ID, m)
}

// City returns the location text before the first comma, untrimmed.
func (u *UserProfile) City() string {
	return cityToken(u.Location)
}
