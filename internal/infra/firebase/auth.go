package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"brainbuzz/internal/domain"
)

// Authenticator creates accounts and verifies ID tokens. Password sign-in
// happens in the client SDK, which then presents its ID token.
type Authenticator struct {
	client *auth.Client
}

func NewAuthenticator(client *auth.Client) *Authenticator {
	return &Authenticator{client: client}
}

func (a *Authenticator) SignUp(ctx context.Context, email, password, displayName string) (domain.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)
	user, err := a.client.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return domain.Identity{}, domain.ErrAccountExists
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create user: %w", err)
	}
	return domain.Identity{UID: user.UID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (a *Authenticator) SignIn(context.Context, string, string) (string, domain.Identity, error) {
	return "", domain.Identity{}, domain.ErrUnsupported
}

func (a *Authenticator) Verify(ctx context.Context, token string) (domain.Identity, error) {
	tok, err := a.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	id := domain.Identity{UID: tok.UID}
	id.Email, _ = tok.Claims["email"].(string)
	id.DisplayName, _ = tok.Claims["name"].(string)
	return id, nil
}

// SignOut revokes the refresh tokens of uid; ID tokens minted before are
// rejected by Verify from then on.
func (a *Authenticator) SignOut(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}
