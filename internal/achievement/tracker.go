package achievement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"brainbuzz/internal/domain"
)

// Unlocker persists achievement ids with set-union semantics.
type Unlocker interface {
	Unlock(ctx context.Context, uid string, ids ...string) error
}

// Tracker evaluates a refreshed profile and records what it newly earned.
type Tracker struct {
	store    Unlocker
	log      zerolog.Logger
	onUnlock func(id string)
}

// TrackerOption customises a Tracker.
type TrackerOption func(*Tracker)

func WithLogger(l zerolog.Logger) TrackerOption {
	return func(t *Tracker) { t.log = l }
}

// WithUnlockHook is called once per persisted achievement, e.g. to count it.
func WithUnlockHook(fn func(id string)) TrackerOption {
	return func(t *Tracker) { t.onUnlock = fn }
}

func NewTracker(store Unlocker, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Check unlocks every newly satisfied achievement in one write and returns a
// notification per unlock. Nothing is persisted when the write fails.
func (t *Tracker) Check(ctx context.Context, p domain.UserProfile) ([]domain.Notification, error) {
	earned := Evaluate(p)
	if len(earned) == 0 {
		return nil, nil
	}
	ids := make([]string, len(earned))
	for i, a := range earned {
		ids[i] = a.ID
	}
	if err := t.store.Unlock(ctx, p.UID, ids...); err != nil {
		return nil, fmt.Errorf("unlock achievements: %w", err)
	}

	notes := make([]domain.Notification, 0, len(earned))
	for _, a := range earned {
		t.log.Info().Str("uid", p.UID).Str("achievement", a.ID).Msg("achievement unlocked")
		if t.onUnlock != nil {
			t.onUnlock(a.ID)
		}
		notes = append(notes, domain.Notification{
			Kind:    domain.NoticeAchievement,
			Title:   "Achievement Unlocked! " + a.Icon,
			Message: fmt.Sprintf("%s: %s", a.Name, a.Description),
		})
	}
	return notes, nil
}
