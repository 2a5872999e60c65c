// internal/matching/validation.go
// Validation boundary between untyped input and the typed records

package matching

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	EntityUser  = "user"
	EntityMatch = "match"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names so errors line up with the input.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError names the entity and field that failed validation.
type ValidationError struct {
	Entity string `json:"entity"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PreferencesInput is the wire shape of Preferences. Pointer fields
// distinguish an absent value from a zero one.
type PreferencesInput struct {
	MinAge      *int     `json:"min_age" validate:"required,gte=0"`
	MaxAge      *int     `json:"max_age" validate:"required,gte=0"`
	Gender      *Gender  `json:"gender" validate:"required,oneof=male female other"`
	Interests   []string `json:"interests,omitempty"`
	Location    string   `json:"location,omitempty"`
	MaxDistance int      `json:"max_distance,omitempty"`
}

// ProfileInput is the wire shape of UserProfile.
type ProfileInput struct {
	ID               *string           `json:"id" validate:"required"`
	Name             string            `json:"name,omitempty"`
	Age              *int              `json:"age" validate:"required,gte=0"`
	Gender           *Gender           `json:"gender" validate:"required,oneof=male female other"`
	Location         *string           `json:"location" validate:"required"`
	Interests        []string          `json:"interests" validate:"required"`
	Preferences      *PreferencesInput `json:"preferences" validate:"required"`
	MatchesRemaining *int              `json:"matches_remaining" validate:"omitempty,gte=0"`
	LastMatchRequest *time.Time        `json:"last_match_request,omitempty"`
}

// Build validates the input and returns the typed profile. An absent
// matches_remaining is treated as 0.
func (in *ProfileInput) Build() (*UserProfile, error) {
	if in == nil {
		return nil, &ValidationError{Entity: EntityUser, Field: "profile", Reason: "is required"}
	}

	var id string
	if in.ID != nil {
		id = *in.ID
	}
	if err := validateRecord(EntityUser, id, in); err != nil {
		return nil, err
	}

	profile := &UserProfile{
		ID:               id,
		Name:             in.Name,
		Age:              *in.Age,
		Gender:           *in.Gender,
		Location:         *in.Location,
		Interests:        append([]string(nil), in.Interests...),
		LastMatchRequest: in.LastMatchRequest,
		Preferences: Preferences{
			MinAge:      *in.Preferences.MinAge,
			MaxAge:      *in.Preferences.MaxAge,
			Gender:      *in.Preferences.Gender,
			Interests:   append([]string(nil), in.Preferences.Interests...),
			Location:    in.Preferences.Location,
			MaxDistance: in.Preferences.MaxDistance,
		},
	}
	if in.MatchesRemaining != nil {
		profile.MatchesRemaining = *in.MatchesRemaining
	}

	return profile, nil
}

// MatchInput is the wire shape of ExistingMatch. Absent flags read as false.
type MatchInput struct {
	ID            string     `json:"id"`
	UserID        *string    `json:"user_id" validate:"required"`
	MatchedUserID *string    `json:"matched_user_id" validate:"required"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	Viewed        *bool      `json:"viewed,omitempty"`
	Contacted     *bool      `json:"contacted,omitempty"`
}

func (in *MatchInput) Build() (*ExistingMatch, error) {
	if in == nil {
		return nil, &ValidationError{Entity: EntityMatch, Field: "match", Reason: "is required"}
	}
	if err := validateRecord(EntityMatch, in.ID, in); err != nil {
		return nil, err
	}

	match := &ExistingMatch{
		ID:            in.ID,
		UserID:        *in.UserID,
		MatchedUserID: *in.MatchedUserID,
	}
	if in.Timestamp != nil {
		match.Timestamp = *in.Timestamp
	}
	if in.Viewed != nil {
		match.Viewed = *in.Viewed
	}
	if in.Contacted != nil {
		match.Contacted = *in.Contacted
	}

	return match, nil
}

// BuildProfiles converts a batch of inputs, stopping at the first invalid one.
func BuildProfiles(inputs []*ProfileInput) ([]UserProfile, error) {
	profiles := make([]UserProfile, 0, len(inputs))
	for _, in := range inputs {
		p, err := in.Build()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func BuildMatches(inputs []*MatchInput) ([]ExistingMatch, error) {
	matches := make([]ExistingMatch, 0, len(inputs))
	for _, in := range inputs {
		m, err := in.Build()
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

func validateRecord(entity, id string, record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Entity: entity, ID: id, Field: entity, Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Entity: entity,
		ID:     id,
		Field:  fieldPath(fe),
		Reason: describe(fe),
	}
}

// fieldPath drops the root struct name from the namespace,
// e.g. "ProfileInput.preferences.gender" becomes "preferences.gender".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}
