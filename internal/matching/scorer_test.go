package matching

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(id string, age int, gender, prefGender Gender, minAge, maxAge int, location string, interests ...string) *UserProfile {
	return &UserProfile{
		ID:        id,
		Age:       age,
		Gender:    gender,
		Location:  location,
		Interests: interests,
		Preferences: Preferences{
			MinAge: minAge,
			MaxAge: maxAge,
			Gender: prefGender,
		},
		MatchesRemaining: 2,
	}
}

func TestScore_MutualFitInSameCity(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	u := newProfile("u", 30, GenderFemale, GenderMale, 25, 35, "Austin, USA", "hiking", "movies")
	c := newProfile("c", 28, GenderMale, GenderFemale, 25, 35, "Austin, USA", "hiking", "movies", "cooking")

	score, factors, err := scorer.Calculate(u, c)
	require.NoError(t, err)

	assert.Equal(t, 90, score)
	assert.Equal(t, 30, factors.AgeMatch)
	assert.Equal(t, 20, factors.GenderMatch)
	assert.Equal(t, 20, factors.InterestsMatch)
	assert.Equal(t, 20, factors.LocationMatch)
}

func TestScore_AgeIsCheckedPerDirection(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	// u accepts c's age, c does not accept u's age
	u := newProfile("u", 40, GenderFemale, GenderMale, 25, 35, "Austin", "a")
	c := newProfile("c", 30, GenderMale, GenderFemale, 25, 35, "Dallas", "b")

	_, factors, err := scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Equal(t, 15, factors.AgeMatch)

	c.Preferences.MaxAge = 40
	_, factors, err = scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Equal(t, 30, factors.AgeMatch, "upper bound is inclusive")
}

func TestScore_GenderRequiresMutualPreference(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	u := newProfile("u", 30, GenderFemale, GenderMale, 18, 99, "X")
	c := newProfile("c", 30, GenderMale, GenderMale, 18, 99, "Y")

	_, factors, err := scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Zero(t, factors.GenderMatch)

	c.Preferences.Gender = GenderFemale
	_, factors, err = scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Equal(t, 20, factors.GenderMatch)
}

func TestScore_InterestEdgeCases(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"both empty", nil, []string{}, 0},
		{"one empty", []string{"a"}, nil, 0},
		{"identical", []string{"a", "b"}, []string{"b", "a"}, 30},
		{"duplicates collapse", []string{"a", "a", "b"}, []string{"a", "b"}, 30},
		{"case sensitive", []string{"Hiking"}, []string{"hiking"}, 0},
		{"one of three", []string{"a"}, []string{"a", "b", "c"}, 10},
		{"floor applied", []string{"a", "b", "c", "d", "e", "f", "g"}, []string{"a"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.interestsScore(tt.a, tt.b))
		})
	}
}

func TestScore_InterestsMonotonicInOverlap(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	base := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	prev := -1
	for shared := 0; shared <= len(base); shared++ {
		other := make([]string, 0, len(base))
		other = append(other, base[:shared]...)
		for i := shared; i < len(base); i++ {
			other = append(other, fmt.Sprintf("other-%d", i))
		}

		got := scorer.interestsScore(base, other)
		assert.GreaterOrEqual(t, got, prev, "shared=%d", shared)
		prev = got
	}
	assert.Equal(t, 30, prev)
}

func TestScore_LocationComparesCityToken(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	u := newProfile("u", 30, GenderFemale, GenderMale, 18, 99, "Austin, USA")
	c := newProfile("c", 30, GenderMale, GenderFemale, 18, 99, "Austin,TX")

	_, factors, err := scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Equal(t, 20, factors.LocationMatch)

	c.Location = "austin, USA"
	_, factors, err = scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Zero(t, factors.LocationMatch)

	c.Location = " Austin, USA"
	_, factors, err = scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Zero(t, factors.LocationMatch, "whitespace is not trimmed")
}

func TestScore_ClampedToMax(t *testing.T) {
	heavy := DefaultWeights
	heavy.AgeMatch = 40
	scorer := NewScorer(heavy)

	u := newProfile("u", 30, GenderFemale, GenderMale, 18, 99, "Austin", "a")
	c := newProfile("c", 30, GenderMale, GenderFemale, 18, 99, "Austin", "a")

	score, factors, err := scorer.Calculate(u, c)
	require.NoError(t, err)
	assert.Equal(t, 150, factors.Total())
	assert.Equal(t, 100, score)
}

func TestScore_RangeAndSymmetry(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	rng := rand.New(rand.NewSource(42))

	genders := []Gender{GenderMale, GenderFemale, GenderOther}
	cities := []string{"Austin, USA", "Boston, MA", "Austin", "Chicago, IL", ""}
	tags := []string{"hiking", "movies", "cooking", "art", "yoga", "music", "travel"}

	randomProfile := func(id string) *UserProfile {
		minAge := 18 + rng.Intn(30)
		var interests []string
		for _, tag := range tags {
			if rng.Intn(2) == 0 {
				interests = append(interests, tag)
			}
		}
		return newProfile(id, 18+rng.Intn(50),
			genders[rng.Intn(len(genders))], genders[rng.Intn(len(genders))],
			minAge, minAge+rng.Intn(20),
			cities[rng.Intn(len(cities))], interests...)
	}

	for i := 0; i < 500; i++ {
		a := randomProfile("a")
		b := randomProfile("b")

		ab, err := scorer.Score(a, b)
		require.NoError(t, err)
		ba, err := scorer.Score(b, a)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ab, 0)
		assert.LessOrEqual(t, ab, 100)
		assert.Equal(t, ab, ba, "score must be symmetric for %+v / %+v", a, b)
	}
}

func TestScore_RejectsMalformedProfile(t *testing.T) {
	scorer := NewScorer(DefaultWeights)
	u := newProfile("u", 30, GenderFemale, GenderMale, 18, 99, "Austin")
	bad := newProfile("bad", 30, GenderMale, "", 18, 99, "Austin")

	_, err := scorer.Score(u, bad)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, EntityUser, ve.Entity)
	assert.Equal(t, "bad", ve.ID)
	assert.Equal(t, "preferences.gender", ve.Field)
}
