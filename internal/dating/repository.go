// internal/dating/repository.go

package dating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
)

type Repository interface {
	// Profiles
	ListProfiles(ctx context.Context) ([]matching.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*matching.UserProfile, error)
	ResetDailyQuotas(ctx context.Context, quota int) (int64, error)

	// Matches
	ListUserMatches(ctx context.Context, userID string, limit int) ([]*Match, error)
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	CreateMatches(ctx context.Context, userID string, matches []*Match, requestedAt time.Time) error
	MarkViewed(ctx context.Context, matchID string) error
	MarkContacted(ctx context.Context, matchID string) error
	DeleteMatch(ctx context.Context, matchID string) error

	// Stats
	MatchStats(ctx context.Context) (*MatchStats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, name, age, gender, location, interests,
	pref_min_age, pref_max_age, pref_gender, pref_interests, pref_location, pref_max_distance,
	matches_remaining, last_match_request
`

// Profile Methods

func (r *postgresRepository) ListProfiles(ctx context.Context) ([]matching.UserProfile, error) {
	var rows []userRow
	query := `SELECT ` + profileColumns + ` FROM users ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	profiles := make([]matching.UserProfile, 0, len(rows))
	for i := range rows {
		profile, err := rows[i].toInput().Build()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*matching.UserProfile, error) {
	var row userRow
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toInput().Build()
}

func (r *postgresRepository) ResetDailyQuotas(ctx context.Context, quota int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET matches_remaining = $1, updated_at = NOW()`, quota)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Match Methods

func (r *postgresRepository) ListUserMatches(ctx context.Context, userID string, limit int) ([]*Match, error) {
	query := `
		SELECT id, user_id, matched_user_id, compatibility_score, created_at, viewed, contacted
		FROM matches
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	matches := []*Match{}
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	var match Match
	query := `
		SELECT id, user_id, matched_user_id, compatibility_score, created_at, viewed, contacted
		FROM matches
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &match, query, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	return &match, nil
}

// CreateMatches stores the new matches and spends one unit of the owner's
// quota in a single transaction.
func (r *postgresRepository) CreateMatches(ctx context.Context, userID string, matches []*Match, requestedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO matches (id, user_id, matched_user_id, compatibility_score, created_at, viewed, contacted)
		VALUES (:id, :user_id, :matched_user_id, :compatibility_score, :created_at, :viewed, :contacted)
	`
	for _, m := range matches {
		if _, err := tx.NamedExecContext(ctx, insert, m); err != nil {
			return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE users
		SET matches_remaining = matches_remaining - 1,
		    last_match_request = $2,
		    updated_at = NOW()
		WHERE id = $1 AND matches_remaining > 0
	`, userID, requestedAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrQuotaExhausted
	}

	return tx.Commit()
}

func (r *postgresRepository) MarkViewed(ctx context.Context, matchID string) error {
	return r.execOnMatch(ctx, `UPDATE matches SET viewed = TRUE WHERE id = $1`, matchID)
}

func (r *postgresRepository) MarkContacted(ctx context.Context, matchID string) error {
	return r.execOnMatch(ctx, `UPDATE matches SET contacted = TRUE WHERE id = $1`, matchID)
}

func (r *postgresRepository) DeleteMatch(ctx context.Context, matchID string) error {
	return r.execOnMatch(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
}

func (r *postgresRepository) execOnMatch(ctx context.Context, query, matchID string) error {
	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMatchNotFound
	}

	return nil
}

// Stats

func (r *postgresRepository) MatchStats(ctx context.Context) (*MatchStats, error) {
	stats := &MatchStats{LastUpdated: time.Now()}

	err := r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*) AS total_users,
			COUNT(CASE WHEN matches_remaining > 0 THEN 1 END) AS users_with_quota
		FROM users
	`).Scan(&stats.TotalUsers, &stats.UsersWithQuota)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*) AS total_matches,
			COUNT(CASE WHEN viewed THEN 1 END) AS viewed_matches,
			COUNT(CASE WHEN contacted THEN 1 END) AS contacted_matches,
			COALESCE(AVG(compatibility_score), 0) AS average_score
		FROM matches
	`).Scan(&stats.TotalMatches, &stats.ViewedMatches, &stats.ContactedMatches, &stats.AverageScore)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
