package firebase

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
)

// newEmulatorClient connects to the Firestore emulator named by
// FIRESTORE_EMULATOR_HOST and skips the test when none is running.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "demo-brainbuzz")
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestProfileStoreOnEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	store := NewProfileStore(client)

	Convey("Given a fresh account", t, func() {
		ctx := context.Background()
		id := domain.Identity{UID: "u-" + uuid.NewString(), Email: "ana@example.com", DisplayName: "ana"}

		Convey("Applying results creates and accumulates the profile", func() {
			delta := domain.ProfileDelta{Game: domain.GameFlagGuesser, Score: 70, Won: true, Correct: 7, Attempted: 10, Streak: 2, StreakBroken: true, BestStreak: 4}
			_, err := store.ApplyResult(ctx, id, delta)
			So(err, ShouldBeNil)
			p, err := store.ApplyResult(ctx, id, delta)
			So(err, ShouldBeNil)

			So(p.TotalScore, ShouldEqual, 140)
			So(p.Stat(domain.GameFlagGuesser).GamesWon, ShouldEqual, 2)

			stored, err := store.GetProfile(ctx, id.UID)
			So(err, ShouldBeNil)
			So(stored.Stat(domain.GameFlagGuesser), ShouldResemble, p.Stat(domain.GameFlagGuesser))
			So(stored.Username, ShouldEqual, "ana")
		})

		Convey("Unlock is a set union and needs a profile", func() {
			So(errors.Is(store.Unlock(ctx, id.UID, "first_game"), domain.ErrProfileNotFound), ShouldBeTrue)

			So(store.CreateProfile(ctx, domain.NewProfile(id, store.now())), ShouldBeNil)
			So(errors.Is(store.CreateProfile(ctx, domain.NewProfile(id, store.now())), domain.ErrProfileExists), ShouldBeTrue)
			So(store.Unlock(ctx, id.UID, "first_game"), ShouldBeNil)
			So(store.Unlock(ctx, id.UID, "first_game", "high_scorer"), ShouldBeNil)

			p, err := store.GetProfile(ctx, id.UID)
			So(err, ShouldBeNil)
			So(p.Achievements, ShouldResemble, []string{"first_game", "high_scorer"})
		})
	})
}

func TestChallengeStoreOnEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	store := NewChallengeStore(client)

	Convey("Given today's challenges", t, func() {
		ctx := context.Background()
		uid := "u-" + uuid.NewString()
		date := "2025-03-02"
		So(store.SaveChallenges(ctx, uid, date, catalog.DailyChallenges(date)), ShouldBeNil)
		So(store.SaveChallenges(ctx, uid, date, nil), ShouldBeNil)

		Convey("A challenge completes once", func() {
			first, err := store.CompleteChallenge(ctx, uid, date, "wordle_"+date)
			So(err, ShouldBeNil)
			So(first, ShouldBeTrue)
			again, err := store.CompleteChallenge(ctx, uid, date, "wordle_"+date)
			So(err, ShouldBeNil)
			So(again, ShouldBeFalse)

			list, err := store.Challenges(ctx, uid, date)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
			So(list[0].Completed, ShouldBeTrue)
			So(list[0].Date, ShouldEqual, date)
		})
	})
}
