package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"brainbuzz/internal/domain"
)

// Authenticator keeps accounts and bearer tokens in Postgres, so sign-ins
// survive restarts. Emails are unique case-insensitively; tokens are stored
// as SHA-256 digests.
type Authenticator struct {
	pool     *pgxpool.Pool
	cost     int
	newToken func() string
}

// NewAuthenticator uses cost for bcrypt; values below bcrypt.MinCost select the default.
func NewAuthenticator(pool *pgxpool.Pool, cost int) *Authenticator {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{pool: pool, cost: cost, newToken: uuid.NewString}
}

func (a *Authenticator) SignUp(ctx context.Context, email, password, displayName string) (domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return domain.Identity{}, err
	}
	id := domain.Identity{UID: uuid.NewString(), Email: email, DisplayName: displayName}
	tag, err := a.pool.Exec(ctx, `
		INSERT INTO accounts (uid, email, email_key, display_name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email_key) DO NOTHING`,
		id.UID, email, emailKey(email), displayName, hash)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Identity{}, domain.ErrAccountExists
	}
	return id, nil
}

func (a *Authenticator) SignIn(ctx context.Context, email, password string) (string, domain.Identity, error) {
	var id domain.Identity
	var hash []byte
	err := a.pool.QueryRow(ctx,
		`SELECT uid, email, display_name, password_hash FROM accounts WHERE email_key = $1`,
		emailKey(email)).Scan(&id.UID, &id.Email, &id.DisplayName, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	token := a.newToken()
	if _, err := a.pool.Exec(ctx,
		`INSERT INTO auth_tokens (token_hash, uid) VALUES ($1, $2)`, tokenDigest(token), id.UID); err != nil {
		return "", domain.Identity{}, fmt.Errorf("store token: %w", err)
	}
	return token, id, nil
}

func (a *Authenticator) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	var id domain.Identity
	err := a.pool.QueryRow(ctx, `
		SELECT a.uid, a.email, a.display_name
		FROM auth_tokens t JOIN accounts a ON a.uid = t.uid
		WHERE t.token_hash = $1`, tokenDigest(token)).Scan(&id.UID, &id.Email, &id.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify token: %w", err)
	}
	return id, nil
}

// SignOut revokes every token of uid.
func (a *Authenticator) SignOut(ctx context.Context, uid string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
