package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"brainbuzz/internal/domain"
)

type challengeDoc struct {
	ID          string `firestore:"id"`
	Game        string `firestore:"game"`
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	Target      int    `firestore:"target"`
	Reward      int    `firestore:"reward"`
	Completed   bool   `firestore:"completed"`
}

type dayDoc struct {
	Items []challengeDoc `firestore:"items"`
}

// ChallengeStore keeps each day's challenges in users/{uid}/challenges/{date}.
type ChallengeStore struct {
	client *firestore.Client
}

func NewChallengeStore(client *firestore.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

func (s *ChallengeStore) day(uid, date string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid).Collection("challenges").Doc(date)
}

func (s *ChallengeStore) Challenges(ctx context.Context, uid, date string) ([]domain.DailyChallenge, error) {
	snap, err := s.day(uid, date).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenges: %w", err)
	}
	var doc dayDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}
	return fromDayDoc(date, doc), nil
}

func (s *ChallengeStore) SaveChallenges(ctx context.Context, uid, date string, cs []domain.DailyChallenge) error {
	doc := dayDoc{Items: make([]challengeDoc, 0, len(cs))}
	for _, c := range cs {
		doc.Items = append(doc.Items, challengeDoc{
			ID:          c.ID,
			Game:        string(c.Game),
			Title:       c.Title,
			Description: c.Description,
			Target:      c.Target,
			Reward:      c.Reward,
			Completed:   c.Completed,
		})
	}
	_, err := s.day(uid, date).Create(ctx, doc)
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("save challenges: %w", err)
	}
	return nil
}

func (s *ChallengeStore) CompleteChallenge(ctx context.Context, uid, date, id string) (bool, error) {
	ref := s.day(uid, date)
	var first bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		first = false
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var doc dayDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		for i := range doc.Items {
			if doc.Items[i].ID == id && !doc.Items[i].Completed {
				doc.Items[i].Completed = true
				first = true
			}
		}
		if !first {
			return nil
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		return false, fmt.Errorf("complete challenge: %w", err)
	}
	return first, nil
}

func fromDayDoc(date string, doc dayDoc) []domain.DailyChallenge {
	out := make([]domain.DailyChallenge, 0, len(doc.Items))
	for _, c := range doc.Items {
		out = append(out, domain.DailyChallenge{
			ID:          c.ID,
			Date:        date,
			Game:        domain.GameKind(c.Game),
			Title:       c.Title,
			Description: c.Description,
			Target:      c.Target,
			Reward:      c.Reward,
			Completed:   c.Completed,
		})
	}
	return out
}
