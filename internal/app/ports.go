package app

import (
	"context"

	"brainbuzz/internal/domain"
)

// Player is the explicit caller context handed to every use case. Identity is
// zero for guests; Device keys the local fallback stats.
type Player struct {
	Identity domain.Identity
	Device   string
}

// SignedIn reports whether the player has an account.
func (p Player) SignedIn() bool { return p.Identity.UID != "" }

// BankRepository returns the item pool of a game (cache in front of a loader).
type BankRepository interface {
	GetBank(ctx context.Context, game domain.GameKind) (domain.Bank, error)
}

// PlayRegistry keeps the plays in progress on this instance.
type PlayRegistry interface {
	Put(ctx context.Context, p Play)
	// Touch marks a play as active; registries with expiring state refresh it.
	Touch(id string)
	Get(id string) (Play, bool)
	Delete(id string)
	All() []Play
}

// ProfileStore persists user profiles. ApplyResult and Unlock must be atomic
// on the store side so concurrent sessions of one account never overwrite
// each other.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p domain.UserProfile) error
	GetProfile(ctx context.Context, uid string) (domain.UserProfile, error)
	// ApplyResult folds d into the profile of id, creating it when missing,
	// and returns the updated profile.
	ApplyResult(ctx context.Context, id domain.Identity, d domain.ProfileDelta) (domain.UserProfile, error)
	Unlock(ctx context.Context, uid string, ids ...string) error
	// Top returns up to limit profiles ordered by metric, descending. An
	// empty game orders by the profile totals.
	Top(ctx context.Context, game domain.GameKind, metric domain.Metric, limit int) ([]domain.UserProfile, error)
}

// LocalStatsStore keeps device-scoped stats that are never reconciled with a profile.
type LocalStatsStore interface {
	LoadLocal(ctx context.Context, device string, game domain.GameKind) (domain.LocalStats, error)
	SaveLocal(ctx context.Context, device string, game domain.GameKind, stats domain.LocalStats) error
	// MergeLocal folds res into the device's stats for res.Game in one atomic
	// step, so sessions ending together on one device all count.
	MergeLocal(ctx context.Context, device string, res domain.SessionResult) (domain.LocalStats, error)
	AllLocal(ctx context.Context, device string) (map[domain.GameKind]domain.LocalStats, error)
}

// ChallengeStore keeps the daily challenges of each user.
type ChallengeStore interface {
	// Challenges returns the stored challenges of date, empty when none were created yet.
	Challenges(ctx context.Context, uid, date string) ([]domain.DailyChallenge, error)
	// SaveChallenges stores cs unless challenges for date already exist.
	SaveChallenges(ctx context.Context, uid, date string, cs []domain.DailyChallenge) error
	// CompleteChallenge marks id completed and reports whether this call did it.
	CompleteChallenge(ctx context.Context, uid, date, id string) (bool, error)
}

// Authenticator is the account backend.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, displayName string) (domain.Identity, error)
	// SignIn returns a bearer token. Backends whose clients sign in directly
	// return domain.ErrUnsupported.
	SignIn(ctx context.Context, email, password string) (string, domain.Identity, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
	// SignOut revokes every token of uid.
	SignOut(ctx context.Context, uid string) error
}
