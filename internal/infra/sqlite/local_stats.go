// Package sqlite persists the device-scoped local stats in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"brainbuzz/internal/domain"
)

const keySuffix = "-stats"

// LocalStatsStore stores one JSON value per device and game under the key
// "<game>-stats", the same shape browsers keep in local storage.
type LocalStatsStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewLocalStatsStore(dbPath string) (*LocalStatsStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	// immediate transactions take the write lock up front, so concurrent
	// merges queue on the busy timeout instead of failing on lock upgrade.
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	store := &LocalStatsStore{db: db, now: time.Now}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *LocalStatsStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_stats (
		device TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (device, key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both the database and a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *LocalStatsStore) LoadLocal(ctx context.Context, device string, game domain.GameKind) (domain.LocalStats, error) {
	return loadLocal(ctx, s.db, device, game)
}

func (s *LocalStatsStore) SaveLocal(ctx context.Context, device string, game domain.GameKind, stats domain.LocalStats) error {
	return s.saveLocal(ctx, s.db, device, game, stats)
}

// MergeLocal reads, merges and writes back inside one transaction.
func (s *LocalStatsStore) MergeLocal(ctx context.Context, device string, res domain.SessionResult) (domain.LocalStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LocalStats{}, fmt.Errorf("begin local stats merge: %w", err)
	}
	defer tx.Rollback()

	stats, err := loadLocal(ctx, tx, device, res.Game)
	if err != nil {
		return domain.LocalStats{}, err
	}
	merged := stats.Merge(res)
	if err := s.saveLocal(ctx, tx, device, res.Game, merged); err != nil {
		return domain.LocalStats{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.LocalStats{}, fmt.Errorf("commit local stats merge: %w", err)
	}
	return merged, nil
}

func loadLocal(ctx context.Context, q execer, device string, game domain.GameKind) (domain.LocalStats, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT value FROM local_stats WHERE device = ? AND key = ?`, device, statsKey(game)).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.LocalStats{}, nil
	}
	if err != nil {
		return domain.LocalStats{}, fmt.Errorf("load local stats: %w", err)
	}
	var stats domain.LocalStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return domain.LocalStats{}, fmt.Errorf("decode local stats: %w", err)
	}
	return stats, nil
}

func (s *LocalStatsStore) saveLocal(ctx context.Context, q execer, device string, game domain.GameKind, stats domain.LocalStats) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO local_stats (device, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (device, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		device, statsKey(game), string(value), s.now().UTC())
	if err != nil {
		return fmt.Errorf("save local stats: %w", err)
	}
	return nil
}

func (s *LocalStatsStore) AllLocal(ctx context.Context, device string) (map[domain.GameKind]domain.LocalStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM local_stats WHERE device = ?`, device)
	if err != nil {
		return nil, fmt.Errorf("list local stats: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.GameKind]domain.LocalStats)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var stats domain.LocalStats
		if err := json.Unmarshal([]byte(raw), &stats); err != nil {
			return nil, fmt.Errorf("decode local stats %s: %w", key, err)
		}
		out[domain.GameKind(strings.TrimSuffix(key, keySuffix))] = stats
	}
	return out, rows.Err()
}

func (s *LocalStatsStore) Close() error {
	return s.db.Close()
}

func statsKey(game domain.GameKind) string {
	return string(game) + keySuffix
}
