package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"brainbuzz/internal/achievement"
	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
)

const minPasswordLength = 6

// ProfileService covers accounts, profiles, achievements and leaderboards.
type ProfileService struct {
	auth         Authenticator
	profiles     ProfileStore
	local        LocalStatsStore
	now          func() time.Time
	defaultLimit int
	maxLimit     int
}

// ProfileServiceOption customises a ProfileService.
type ProfileServiceOption func(*ProfileService)

// WithLeaderboardLimits sets the default and maximum leaderboard size.
func WithLeaderboardLimits(def, limit int) ProfileServiceOption {
	return func(s *ProfileService) {
		if def > 0 {
			s.defaultLimit = def
		}
		s.maxLimit = max(limit, s.defaultLimit)
	}
}

func WithLocalStats(local LocalStatsStore) ProfileServiceOption {
	return func(s *ProfileService) { s.local = local }
}

func WithProfileClock(now func() time.Time) ProfileServiceOption {
	return func(s *ProfileService) { s.now = now }
}

func NewProfileService(auth Authenticator, profiles ProfileStore, opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{
		auth:         auth,
		profiles:     profiles,
		now:          time.Now,
		defaultLimit: 10,
		maxLimit:     50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates the account and its zeroed profile.
func (s *ProfileService) SignUp(ctx context.Context, email, password, displayName string) (domain.UserProfile, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if _, err := mail.ParseAddress(email); err != nil || len(password) < minPasswordLength || displayName == "" {
		return domain.UserProfile{}, domain.ErrInvalidCredentials
	}
	id, err := s.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile := domain.NewProfile(id, s.now())
	if err := s.profiles.CreateProfile(ctx, profile); err != nil && !errors.Is(err, domain.ErrProfileExists) {
		return domain.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) SignIn(ctx context.Context, email, password string) (string, domain.Identity, error) {
	return s.auth.SignIn(ctx, strings.TrimSpace(email), password)
}

func (s *ProfileService) SignOut(ctx context.Context, uid string) error {
	return s.auth.SignOut(ctx, uid)
}

// Authenticate resolves a bearer token to an identity.
func (s *ProfileService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return s.auth.Verify(ctx, token)
}

// Profile returns the profile of id, creating an empty one for accounts
// that signed up outside this service.
func (s *ProfileService) Profile(ctx context.Context, id domain.Identity) (domain.UserProfile, error) {
	p, err := s.profiles.GetProfile(ctx, id.UID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return domain.UserProfile{}, err
	}
	p = domain.NewProfile(id, s.now())
	if err := s.profiles.CreateProfile(ctx, p); err != nil && !errors.Is(err, domain.ErrProfileExists) {
		return domain.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Achievements lists every achievement with the unlocked flag of id's profile.
func (s *ProfileService) Achievements(ctx context.Context, id domain.Identity) ([]achievement.Status, error) {
	p, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	return achievement.Statuses(p), nil
}

// Leaderboard ranks profiles on board. limit <= 0 selects the default size;
// larger requests are capped.
func (s *ProfileService) Leaderboard(ctx context.Context, board string, limit int) (domain.Leaderboard, error) {
	b, err := catalog.LookupBoard(board)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	top, err := s.profiles.Top(ctx, b.Game, b.Metric, limit)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard %s: %w", board, err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(top))
	for i, p := range top {
		name := p.Username
		if name == "" {
			name = "Anonymous"
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     i + 1,
			UID:      p.UID,
			Username: name,
			Score:    p.Value(b.Game, b.Metric),
		})
	}
	return domain.Leaderboard{
		Board:     b.ID,
		Title:     b.Title,
		Entries:   entries,
		UpdatedAt: s.now(),
	}, nil
}

// LocalStats returns the device-scoped stats of every game played on device.
func (s *ProfileService) LocalStats(ctx context.Context, device string) (map[domain.GameKind]domain.LocalStats, error) {
	if s.local == nil || device == "" {
		return map[domain.GameKind]domain.LocalStats{}, nil
	}
	return s.local.AllLocal(ctx, device)
}
