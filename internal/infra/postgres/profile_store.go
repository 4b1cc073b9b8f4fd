package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"brainbuzz/internal/domain"
)

// ProfileStore keeps profiles in the profiles table and per-game statistics
// in profile_stats. Result updates are single upserts with increments, so
// concurrent sessions of one account never overwrite each other.
type ProfileStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool, now: time.Now}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (s *ProfileStore) CreateProfile(ctx context.Context, p domain.UserProfile) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (uid, email, username, created_at, total_score, games_played, achievements)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO NOTHING`,
		p.UID, p.Email, p.Username, p.CreatedAt, p.TotalScore, p.GamesPlayed, nonNil(p.Achievements))
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileExists
	}
	return nil
}

func (s *ProfileStore) GetProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	return getProfile(ctx, s.pool, uid)
}

func (s *ProfileStore) ApplyResult(ctx context.Context, id domain.Identity, d domain.ProfileDelta) (domain.UserProfile, error) {
	var out domain.UserProfile
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (uid, email, username, created_at, total_score, games_played)
			VALUES ($1, $2, $3, $4, $5, 1)
			ON CONFLICT (uid) DO UPDATE SET
				total_score = profiles.total_score + EXCLUDED.total_score,
				games_played = profiles.games_played + 1`,
			id.UID, id.Email, id.DisplayName, s.now(), d.Score)
		if err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}

		won := 0
		if d.Won {
			won = 1
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO profile_stats AS s (uid, game, games_played, games_won, total_score, best_score,
				correct_answers, attempted, current_streak, best_streak, answer_millis)
			VALUES ($1, $2, 1, $3, $4, $4, $5, $6, $7, GREATEST($7, $8), $9)
			ON CONFLICT (uid, game) DO UPDATE SET
				games_played = s.games_played + 1,
				games_won = s.games_won + EXCLUDED.games_won,
				total_score = s.total_score + EXCLUDED.total_score,
				best_score = GREATEST(s.best_score, EXCLUDED.best_score),
				correct_answers = s.correct_answers + EXCLUDED.correct_answers,
				attempted = s.attempted + EXCLUDED.attempted,
				answer_millis = s.answer_millis + EXCLUDED.answer_millis,
				current_streak = CASE WHEN $10 THEN EXCLUDED.current_streak ELSE s.current_streak + EXCLUDED.current_streak END,
				best_streak = GREATEST(s.best_streak, EXCLUDED.best_streak,
					CASE WHEN $10 THEN EXCLUDED.current_streak ELSE s.current_streak + EXCLUDED.current_streak END)`,
			id.UID, string(d.Game), won, d.Score, d.Correct, d.Attempted, d.Streak, d.BestStreak, d.AnswerMillis, d.StreakBroken)
		if err != nil {
			return fmt.Errorf("upsert stats: %w", err)
		}

		out, err = getProfile(ctx, tx, id.UID)
		return err
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return out, nil
}

// Unlock appends ids that are not yet present, keeping unlock order.
func (s *ProfileStore) Unlock(ctx context.Context, uid string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles SET achievements = achievements || ARRAY(
			SELECT id FROM unnest($2::text[]) WITH ORDINALITY AS n(id, ord)
			WHERE NOT id = ANY(achievements)
			GROUP BY id ORDER BY min(ord))
		WHERE uid = $1`, uid, ids)
	if err != nil {
		return fmt.Errorf("unlock achievements: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

var statColumns = map[domain.Metric]string{
	domain.MetricTotalScore:     "total_score",
	domain.MetricGamesPlayed:    "games_played",
	domain.MetricGamesWon:       "games_won",
	domain.MetricCorrectAnswers: "correct_answers",
	domain.MetricBestScore:      "best_score",
	domain.MetricBestStreak:     "best_streak",
}

func (s *ProfileStore) Top(ctx context.Context, game domain.GameKind, metric domain.Metric, limit int) ([]domain.UserProfile, error) {
	col, ok := statColumns[metric]
	if !ok {
		return nil, fmt.Errorf("unsupported metric %q", metric)
	}

	var rows pgx.Rows
	var err error
	if game == "" {
		if metric != domain.MetricGamesPlayed {
			col = "total_score"
		}
		rows, err = s.pool.Query(ctx,
			`SELECT uid FROM profiles WHERE `+col+` > 0 ORDER BY `+col+` DESC, uid LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT uid FROM profile_stats WHERE game = $1 AND `+col+` > 0 ORDER BY `+col+` DESC, uid LIMIT $2`,
			string(game), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("top profiles: %w", err)
	}
	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			rows.Close()
			return nil, err
		}
		uids = append(uids, uid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.UserProfile, 0, len(uids))
	for _, uid := range uids {
		p, err := getProfile(ctx, s.pool, uid)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func getProfile(ctx context.Context, q querier, uid string) (domain.UserProfile, error) {
	p := domain.UserProfile{UID: uid}
	err := q.QueryRow(ctx, `
		SELECT email, username, created_at, total_score, games_played, achievements
		FROM profiles WHERE uid = $1`, uid).
		Scan(&p.Email, &p.Username, &p.CreatedAt, &p.TotalScore, &p.GamesPlayed, &p.Achievements)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Achievements = nonNil(p.Achievements)

	rows, err := q.Query(ctx, `
		SELECT game, games_played, games_won, total_score, best_score, correct_answers,
			attempted, current_streak, best_streak, answer_millis
		FROM profile_stats WHERE uid = $1`, uid)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get stats: %w", err)
	}
	defer rows.Close()

	p.Stats = make(map[domain.GameKind]domain.GameStats)
	for rows.Next() {
		var game string
		var g domain.GameStats
		if err := rows.Scan(&game, &g.GamesPlayed, &g.GamesWon, &g.TotalScore, &g.BestScore, &g.CorrectAnswers,
			&g.Attempted, &g.CurrentStreak, &g.BestStreak, &g.AnswerMillis); err != nil {
			return domain.UserProfile{}, err
		}
		p.Stats[domain.GameKind(game)] = g
	}
	return p, rows.Err()
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
