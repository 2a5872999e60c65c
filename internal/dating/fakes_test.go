package dating

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

// memRepository is an in-memory Repository
type memRepository struct {
	mu       sync.Mutex
	users    []matching.UserProfile
	matches  []*Match
	listErr  error
	createFn func() error
}

func (m *memRepository) ListProfiles(ctx context.Context) ([]matching.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]matching.UserProfile(nil), m.users...), nil
}

func (m *memRepository) GetProfile(ctx context.Context, userID string) (*matching.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == userID {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepository) ResetDailyQuotas(ctx context.Context, quota int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		m.users[i].MatchesRemaining = quota
	}
	return int64(len(m.users)), nil
}

func (m *memRepository) ListUserMatches(ctx context.Context, userID string, limit int) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Match{}
	for _, match := range m.matches {
		if match.UserID == userID {
			c := *match
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepository) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, match := range m.matches {
		if match.ID == matchID {
			c := *match
			return &c, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (m *memRepository) CreateMatches(ctx context.Context, userID string, matches []*Match, requestedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(); err != nil {
			return err
		}
	}
	for i := range m.users {
		if m.users[i].ID != userID {
			continue
		}
		if m.users[i].MatchesRemaining <= 0 {
			return ErrQuotaExhausted
		}
		m.users[i].MatchesRemaining--
		t := requestedAt
		m.users[i].LastMatchRequest = &t
		m.matches = append(m.matches, matches...)
		return nil
	}
	return ErrUserNotFound
}

func (m *memRepository) update(matchID string, fn func(*Match)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, match := range m.matches {
		if match.ID == matchID {
			fn(match)
			return nil
		}
	}
	return ErrMatchNotFound
}

func (m *memRepository) MarkViewed(ctx context.Context, matchID string) error {
	return m.update(matchID, func(match *Match) { match.Viewed = true })
}

func (m *memRepository) MarkContacted(ctx context.Context, matchID string) error {
	return m.update(matchID, func(match *Match) { match.Contacted = true })
}

func (m *memRepository) DeleteMatch(ctx context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, match := range m.matches {
		if match.ID == matchID {
			m.matches = append(m.matches[:i], m.matches[i+1:]...)
			return nil
		}
	}
	return ErrMatchNotFound
}

func (m *memRepository) MatchStats(ctx context.Context) (*MatchStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &MatchStats{TotalUsers: int64(len(m.users)), TotalMatches: int64(len(m.matches))}
	for _, u := range m.users {
		if u.MatchesRemaining > 0 {
			stats.UsersWithQuota++
		}
	}
	return stats, nil
}

func (m *memRepository) user(id string) matching.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return matching.UserProfile{}
}

type sentNotice struct {
	selectedID string
	ownerID    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
	err  error
}

func (n *recordingNotifier) NotifyMatchSelected(ctx context.Context, selectedID, ownerID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotice{selectedID: selectedID, ownerID: ownerID})
	return n.err
}

func profile(id string, age int, gender, wants matching.Gender, minAge, maxAge int, location string, interests ...string) matching.UserProfile {
	return matching.UserProfile{
		ID:        id,
		Age:       age,
		Gender:    gender,
		Location:  location,
		Interests: interests,
		Preferences: matching.Preferences{
			MinAge: minAge,
			MaxAge: maxAge,
			Gender: wants,
		},
		MatchesRemaining: 2,
	}
}

// seedUsers returns a requester "alice" and three eligible men plus one
// ineligible candidate.
func seedUsers() []matching.UserProfile {
	return []matching.UserProfile{
		profile("alice", 30, matching.GenderFemale, matching.GenderMale, 25, 35, "Austin, USA", "hiking", "movies"),
		profile("bob", 31, matching.GenderMale, matching.GenderFemale, 25, 35, "Austin, TX", "hiking", "movies"),
		profile("carl", 29, matching.GenderMale, matching.GenderFemale, 25, 35, "Dallas, TX", "hiking"),
		profile("dan", 33, matching.GenderMale, matching.GenderMale, 25, 35, "Boston, MA"),
		profile("eve", 30, matching.GenderFemale, matching.GenderMale, 25, 35, "Austin, USA", "hiking"),
	}
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		DailyQuota: 2,
		Weights:    matching.DefaultWeights,
		Limits:     matching.DefaultLimits,
		Now:        func() time.Time { return fixedNow },
	}
}
