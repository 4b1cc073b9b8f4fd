package firebase

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"brainbuzz/internal/domain"
)

const usersCollection = "users"

type gameStatsDoc struct {
	GamesPlayed    int   `firestore:"gamesPlayed"`
	GamesWon       int   `firestore:"gamesWon"`
	TotalScore     int   `firestore:"totalScore"`
	BestScore      int   `firestore:"bestScore"`
	CorrectAnswers int   `firestore:"correctAnswers"`
	Attempted      int   `firestore:"attempted"`
	CurrentStreak  int   `firestore:"currentStreak"`
	BestStreak     int   `firestore:"bestStreak"`
	AnswerMillis   int64 `firestore:"answerMillis"`
}

type profileDoc struct {
	Email        string                  `firestore:"email"`
	Username     string                  `firestore:"username"`
	CreatedAt    time.Time               `firestore:"createdAt"`
	TotalScore   int                     `firestore:"totalScore"`
	GamesPlayed  int                     `firestore:"gamesPlayed"`
	Achievements []string                `firestore:"achievements"`
	Stats        map[string]gameStatsDoc `firestore:"stats"`
}

func toDoc(p domain.UserProfile) profileDoc {
	doc := profileDoc{
		Email:        p.Email,
		Username:     p.Username,
		CreatedAt:    p.CreatedAt,
		TotalScore:   p.TotalScore,
		GamesPlayed:  p.GamesPlayed,
		Achievements: append([]string{}, p.Achievements...),
		Stats:        make(map[string]gameStatsDoc, len(p.Stats)),
	}
	for game, g := range p.Stats {
		doc.Stats[string(game)] = gameStatsDoc(g)
	}
	return doc
}

func (d profileDoc) profile(uid string) domain.UserProfile {
	p := domain.UserProfile{
		UID:          uid,
		Email:        d.Email,
		Username:     d.Username,
		CreatedAt:    d.CreatedAt,
		TotalScore:   d.TotalScore,
		GamesPlayed:  d.GamesPlayed,
		Achievements: append([]string{}, d.Achievements...),
		Stats:        make(map[domain.GameKind]domain.GameStats, len(d.Stats)),
	}
	for game, g := range d.Stats {
		p.Stats[domain.GameKind(game)] = domain.GameStats(g)
	}
	return p
}

// ProfileStore keeps one document per account in the users collection.
// Results are applied inside a Firestore transaction, which retries on contention.
type ProfileStore struct {
	client *firestore.Client
	now    func() time.Time
}

func NewProfileStore(client *firestore.Client) *ProfileStore {
	return &ProfileStore{client: client, now: time.Now}
}

func (s *ProfileStore) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

func (s *ProfileStore) CreateProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := s.users().Doc(p.UID).Create(ctx, toDoc(p))
	if status.Code(err) == codes.AlreadyExists {
		return domain.ErrProfileExists
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	snap, err := s.users().Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return doc.profile(uid), nil
}

func (s *ProfileStore) ApplyResult(ctx context.Context, id domain.Identity, d domain.ProfileDelta) (domain.UserProfile, error) {
	ref := s.users().Doc(id.UID)
	var out domain.UserProfile
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		current := domain.NewProfile(id, s.now())
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var doc profileDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			current = doc.profile(id.UID)
		}
		out = current.Apply(d)
		return tx.Set(ref, toDoc(out))
	})
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("apply result: %w", err)
	}
	return out, nil
}

func (s *ProfileStore) Unlock(ctx context.Context, uid string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	_, err := s.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "achievements", Value: firestore.ArrayUnion(values...)},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("unlock achievements: %w", err)
	}
	return nil
}

func (s *ProfileStore) Top(ctx context.Context, game domain.GameKind, metric domain.Metric, limit int) ([]domain.UserProfile, error) {
	path := firestore.FieldPath{"stats", string(game), string(metric)}
	if game == "" {
		path = firestore.FieldPath{string(domain.MetricTotalScore)}
		if metric == domain.MetricGamesPlayed {
			path = firestore.FieldPath{string(metric)}
		}
	}

	docs, err := s.users().
		WherePath(path, ">", 0).
		OrderByPath(path, firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("top profiles: %w", err)
	}
	out := make([]domain.UserProfile, 0, len(docs))
	for _, snap := range docs {
		var doc profileDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.profile(snap.Ref.ID))
	}
	return out, nil
}
