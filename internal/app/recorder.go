package app

import (
	"context"

	"github.com/rs/zerolog"

	"brainbuzz/internal/achievement"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/metrics"
)

// Recorder folds a finished session into local stats, the account profile,
// achievements and daily challenges. Each step is attempted once; failures are
// logged, counted and turned into an error notification.
type Recorder struct {
	local      LocalStatsStore
	profiles   ProfileStore
	tracker    *achievement.Tracker
	challenges *ChallengeService
	metrics    *metrics.Manager
	log        zerolog.Logger
}

// RecorderOption customises a Recorder.
type RecorderOption func(*Recorder)

func WithRecorderLogger(l zerolog.Logger) RecorderOption {
	return func(r *Recorder) { r.log = l }
}

func WithRecorderMetrics(m *metrics.Manager) RecorderOption {
	return func(r *Recorder) { r.metrics = m }
}

// WithChallenges enables daily challenge completion.
func WithChallenges(c *ChallengeService) RecorderOption {
	return func(r *Recorder) { r.challenges = c }
}

// NewRecorder wires the stores. local and profiles may be nil to skip that step.
func NewRecorder(local LocalStatsStore, profiles ProfileStore, opts ...RecorderOption) *Recorder {
	r := &Recorder{local: local, profiles: profiles, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if profiles != nil {
		r.tracker = achievement.NewTracker(profiles,
			achievement.WithLogger(r.log),
			achievement.WithUnlockHook(r.metrics.AchievementUnlocked))
	}
	return r
}

var saveFailed = domain.Notification{
	Kind:    domain.NoticeError,
	Title:   "Could not save your progress",
	Message: "Your result for this game was not saved. Please try again later.",
}

// Record persists res for p and returns the notifications to show.
func (r *Recorder) Record(ctx context.Context, p Player, res domain.SessionResult) []domain.Notification {
	r.metrics.SessionFinished(string(res.Game))
	log := r.log.With().Str("play", res.PlayID).Str("game", string(res.Game)).Logger()

	if r.local != nil && p.Device != "" {
		if _, err := r.local.MergeLocal(ctx, p.Device, res); err != nil {
			r.metrics.PersistenceFailed("local")
			log.Warn().Err(err).Str("device", p.Device).Msg("save local stats")
		}
	}

	if !p.SignedIn() || r.profiles == nil {
		return nil
	}

	var notes []domain.Notification
	profile, err := r.profiles.ApplyResult(ctx, p.Identity, domain.DeltaFor(res))
	if err != nil {
		r.metrics.PersistenceFailed("profile")
		log.Error().Err(err).Str("uid", p.Identity.UID).Msg("update profile")
		return append(notes, saveFailed)
	}
	log.Debug().Str("uid", p.Identity.UID).Int("score", res.Stats.Score).Msg("profile updated")

	unlocked, err := r.tracker.Check(ctx, profile)
	if err != nil {
		r.metrics.PersistenceFailed("achievements")
		log.Error().Err(err).Str("uid", p.Identity.UID).Msg("unlock achievements")
		notes = append(notes, saveFailed)
	}
	notes = append(notes, unlocked...)

	if r.challenges != nil {
		done, err := r.challenges.Complete(ctx, p.Identity.UID, res)
		if err != nil {
			r.metrics.PersistenceFailed("challenges")
			log.Error().Err(err).Str("uid", p.Identity.UID).Msg("complete daily challenges")
		}
		notes = append(notes, done...)
	}
	return notes
}
