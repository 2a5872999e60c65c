// internal/dating/service.go

package dating

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrQuotaExhausted = errors.New("no match requests remaining today")
	ErrMatchNotFound  = errors.New("match not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrLocked         = errors.New("match generation already in progress")
)

// matchDisplayLimit caps how many stored matches are listed at once
const matchDisplayLimit = 5

type Service interface {
	PreviewMatches(ctx context.Context, userID string) (*matching.Result, error)
	GenerateMatches(ctx context.Context, userID string) (*GenerateResult, error)
	GetMatches(ctx context.Context, userID string) ([]*Match, error)
	MarkViewed(ctx context.Context, matchID, userID string) error
	MarkContacted(ctx context.Context, matchID, userID string) error
	DeleteMatch(ctx context.Context, matchID, userID string) error
	Compatibility(ctx context.Context, userID, otherID string) (*CompatibilityReport, error)
	ResetDailyQuotas(ctx context.Context) error
	Stats(ctx context.Context) (*MatchStats, error)
}

// Notifier tells a user they were picked as someone's match
type Notifier interface {
	NotifyMatchSelected(ctx context.Context, selectedID, ownerID string) error
}

type Options struct {
	DailyQuota int
	Weights    matching.Weights
	Limits     matching.Limits
	// Now defaults to time.Now
	Now func() time.Time
}

type service struct {
	repo     Repository
	locker   Locker
	notifier Notifier
	scorer   *matching.Scorer
	selector *matching.Selector
	opts     Options
}

func NewService(repo Repository, locker Locker, notifier Notifier, opts Options) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	scorer := matching.NewScorer(opts.Weights)

	return &service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		scorer:   scorer,
		selector: matching.NewSelector(scorer, opts.Limits),
		opts:     opts,
	}
}

// snapshot loads every profile and the requester's own matches. Matches owned
// by other users never affect the requester's selection.
func (s *service) snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	users, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	rows, err := s.repo.ListUserMatches(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	matches := make([]matching.ExistingMatch, 0, len(rows))
	for _, m := range rows {
		matches = append(matches, m.ToExisting())
	}

	return &Snapshot{Users: users, Matches: matches}, nil
}

// selectFor runs the selector and classifies the outcome. The selector gives
// the same empty result for an unknown user and an exhausted quota, so the
// snapshot is consulted to tell them apart.
func (s *service) selectFor(ctx context.Context, userID string) (*matching.Result, string, error) {
	start := time.Now()
	defer func() { recordSelectionDuration(time.Since(start)) }()

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		if matching.IsValidationError(err) {
			recordSelection(outcomeInvalid)
		}
		return nil, outcomeInvalid, err
	}

	result, err := s.selector.FindMatches(userID, snap.Users, snap.Matches)
	if err != nil {
		recordSelection(outcomeInvalid)
		return nil, outcomeInvalid, err
	}

	outcome := outcomeRanked
	switch {
	case result.IsPending():
		outcome = outcomePending
	case snap.user(userID) == nil:
		outcome = outcomeNotFound
	case snap.user(userID).MatchesRemaining <= 0:
		outcome = outcomeQuotaExhausted
	}
	recordSelection(outcome)

	for _, c := range result.Candidates {
		recordCompatibilityScore(c.Score)
	}

	return result, outcome, nil
}

func (s *service) PreviewMatches(ctx context.Context, userID string) (*matching.Result, error) {
	result, _, err := s.selectFor(ctx, userID)
	return result, err
}

func (s *service) GenerateMatches(ctx context.Context, userID string) (*GenerateResult, error) {
	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	result, outcome, err := s.selectFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case outcomeNotFound:
		return nil, ErrUserNotFound
	case outcomeQuotaExhausted:
		return nil, ErrQuotaExhausted
	case outcomePending:
		return &GenerateResult{
			Kind:    matching.KindPendingMatches,
			Matches: []GeneratedMatch{},
			Pending: result.Pending,
		}, nil
	}

	now := s.opts.Now().UTC()
	generated := make([]GeneratedMatch, 0, len(result.Candidates))
	rows := make([]*Match, 0, len(result.Candidates))

	for _, c := range result.Candidates {
		score := c.Score
		m := &Match{
			ID:            uuid.New().String(),
			UserID:        userID,
			MatchedUserID: c.User.ID,
			Score:         &score,
			CreatedAt:     now,
		}
		rows = append(rows, m)
		generated = append(generated, GeneratedMatch{
			Match:   m,
			User:    c.User,
			Score:   c.Score,
			Factors: c.Factors,
		})
	}

	// A request spends one unit of quota even when nobody qualified.
	if err := s.repo.CreateMatches(ctx, userID, rows, now); err != nil {
		return nil, err
	}
	recordMatchesCreated(len(rows))

	for _, m := range rows {
		if err := s.notifier.NotifyMatchSelected(ctx, m.MatchedUserID, userID); err != nil {
			log.Printf("[matching] notify %s about match %s: %v", m.MatchedUserID, m.ID, err)
		}
	}

	log.Printf("[matching] user %s generated %d matches", userID, len(rows))

	return &GenerateResult{
		Kind:    matching.KindRankedCandidates,
		Matches: generated,
	}, nil
}

func (s *service) GetMatches(ctx context.Context, userID string) ([]*Match, error) {
	return s.repo.ListUserMatches(ctx, userID, matchDisplayLimit)
}

// ownedMatch loads a match and checks it belongs to userID
func (s *service) ownedMatch(ctx context.Context, matchID, userID string) (*Match, error) {
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.UserID != userID {
		return nil, ErrUnauthorized
	}
	return match, nil
}

func (s *service) MarkViewed(ctx context.Context, matchID, userID string) error {
	if _, err := s.ownedMatch(ctx, matchID, userID); err != nil {
		return err
	}
	return s.repo.MarkViewed(ctx, matchID)
}

func (s *service) MarkContacted(ctx context.Context, matchID, userID string) error {
	if _, err := s.ownedMatch(ctx, matchID, userID); err != nil {
		return err
	}
	return s.repo.MarkContacted(ctx, matchID)
}

func (s *service) DeleteMatch(ctx context.Context, matchID, userID string) error {
	if _, err := s.ownedMatch(ctx, matchID, userID); err != nil {
		return err
	}
	return s.repo.DeleteMatch(ctx, matchID)
}

func (s *service) Compatibility(ctx context.Context, userID, otherID string) (*CompatibilityReport, error) {
	user, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.repo.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	score, factors, err := s.scorer.Calculate(user, other)
	if err != nil {
		return nil, err
	}
	recordCompatibilityScore(score)

	return &CompatibilityReport{
		UserID:  userID,
		OtherID: otherID,
		Score:   score,
		Factors: factors,
	}, nil
}

func (s *service) ResetDailyQuotas(ctx context.Context) error {
	n, err := s.repo.ResetDailyQuotas(ctx, s.opts.DailyQuota)
	if err != nil {
		return fmt.Errorf("failed to reset quotas: %w", err)
	}

	log.Printf("[matching] reset daily quota to %d for %d users", s.opts.DailyQuota, n)
	return nil
}

func (s *service) Stats(ctx context.Context) (*MatchStats, error) {
	return s.repo.MatchStats(ctx)
}
