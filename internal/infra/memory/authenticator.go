package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"brainbuzz/internal/domain"
)

// Authenticator is the in-process account backend: bcrypt password hashes
// and opaque bearer tokens, all kept in memory.
type Authenticator struct {
	mu       sync.RWMutex
	cost     int
	accounts map[string]account // by lower-cased email
	tokens   map[string]string  // token -> uid
}

type account struct {
	id   domain.Identity
	hash []byte
}

// NewAuthenticator uses cost for bcrypt; values below bcrypt.MinCost select the default.
func NewAuthenticator(cost int) *Authenticator {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{
		cost:     cost,
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
	}
}

func (a *Authenticator) SignUp(_ context.Context, email, password, displayName string) (domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return domain.Identity{}, err
	}
	key := strings.ToLower(email)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[key]; ok {
		return domain.Identity{}, domain.ErrAccountExists
	}
	id := domain.Identity{UID: uuid.NewString(), Email: email, DisplayName: displayName}
	a.accounts[key] = account{id: id, hash: hash}
	return id, nil
}

func (a *Authenticator) SignIn(_ context.Context, email, password string) (string, domain.Identity, error) {
	a.mu.RLock()
	acc, ok := a.accounts[strings.ToLower(email)]
	a.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	a.mu.Lock()
	a.tokens[token] = acc.id.UID
	a.mu.Unlock()
	return token, acc.id, nil
}

func (a *Authenticator) Verify(_ context.Context, token string) (domain.Identity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	uid, ok := a.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	for _, acc := range a.accounts {
		if acc.id.UID == uid {
			return acc.id, nil
		}
	}
	return domain.Identity{}, domain.ErrUnauthenticated
}

func (a *Authenticator) SignOut(_ context.Context, uid string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for token, owner := range a.tokens {
		if owner == uid {
			delete(a.tokens, token)
		}
	}
	return nil
}
