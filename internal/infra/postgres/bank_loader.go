package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"brainbuzz/internal/domain"
)

// BankLoader loads question banks stored as JSONB, one row per game.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, game domain.GameKind) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM banks WHERE game=$1`, string(game)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("load bank %s: %w", game, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	bank.Game = game
	return bank, nil
}

// SaveBank replaces the stored bank of bank.Game.
func (l *BankLoader) SaveBank(ctx context.Context, bank domain.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO banks (game, data, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (game) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		string(bank.Game), string(data))
	if err != nil {
		return fmt.Errorf("save bank %s: %w", bank.Game, err)
	}
	return nil
}
