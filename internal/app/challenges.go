package app

import (
	"context"
	"fmt"
	"time"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
)

// ChallengeService hands out the daily challenges and completes them.
type ChallengeService struct {
	store ChallengeStore
	now   func() time.Time
}

func NewChallengeService(store ChallengeStore, now func() time.Time) *ChallengeService {
	if now == nil {
		now = time.Now
	}
	return &ChallengeService{store: store, now: now}
}

// Today returns the challenges of the current UTC day, creating them on first use.
func (s *ChallengeService) Today(ctx context.Context, uid string) ([]domain.DailyChallenge, error) {
	date := catalog.ChallengeDate(s.now())
	list, err := s.store.Challenges(ctx, uid, date)
	if err != nil {
		return nil, fmt.Errorf("load challenges: %w", err)
	}
	if len(list) > 0 {
		return list, nil
	}
	if err := s.store.SaveChallenges(ctx, uid, date, catalog.DailyChallenges(date)); err != nil {
		return nil, fmt.Errorf("save challenges: %w", err)
	}
	return s.store.Challenges(ctx, uid, date)
}

// Complete marks every challenge res satisfies and returns an info
// notification for each one completed by this call.
func (s *ChallengeService) Complete(ctx context.Context, uid string, res domain.SessionResult) ([]domain.Notification, error) {
	list, err := s.Today(ctx, uid)
	if err != nil {
		return nil, err
	}
	var notes []domain.Notification
	for _, c := range list {
		if !catalog.ChallengeMet(c, res) {
			continue
		}
		first, err := s.store.CompleteChallenge(ctx, uid, c.Date, c.ID)
		if err != nil {
			return notes, fmt.Errorf("complete challenge %s: %w", c.ID, err)
		}
		if first {
			notes = append(notes, domain.Notification{
				Kind:    domain.NoticeInfo,
				Title:   "Daily challenge complete!",
				Message: fmt.Sprintf("%s - %s", c.Title, c.Description),
			})
		}
	}
	return notes, nil
}
