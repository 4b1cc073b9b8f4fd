package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on its own registry", t, func() {
		m := NewManager(WithNamespace("test"))

		Convey("When game events are recorded", func() {
			m.RoundResolved("food-quiz", "correct")
			m.RoundResolved("food-quiz", "correct")
			m.RoundResolved("food-quiz", "timeout")
			m.SessionFinished("food-quiz")
			m.PersistenceFailed("profile")
			m.AchievementUnlocked("first_game")
			m.PlayStarted()
			m.PlayStarted()
			m.PlayEnded()

			Convey("Then the collectors reflect them", func() {
				So(testutil.ToFloat64(m.rounds.WithLabelValues("food-quiz", "correct")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.rounds.WithLabelValues("food-quiz", "timeout")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.sessions.WithLabelValues("food-quiz")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.persistenceFailures.WithLabelValues("profile")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.achievements.WithLabelValues("first_game")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.activePlays), ShouldEqual, 1)
			})

			Convey("Then the handler exposes them", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
				body, _ := io.ReadAll(rec.Body)
				So(string(body), ShouldContainSubstring, `test_rounds_total{game="food-quiz",outcome="correct"} 2`)
				So(string(body), ShouldContainSubstring, "test_active_plays 1")
			})
		})
	})

	Convey("Given a nil manager", t, func() {
		var m *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.RoundResolved("wordle", "correct")
				m.SessionFinished("wordle")
				m.PersistenceFailed("local")
				m.AchievementUnlocked("first_game")
				m.PlayStarted()
				m.PlayEnded()
			}, ShouldNotPanic)
		})
	})
}
