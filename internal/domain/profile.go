package domain

import "time"

// Metric names a numeric per-game statistic that leaderboards can order by.
type Metric string

const (
	MetricTotalScore     Metric = "totalScore"
	MetricGamesPlayed    Metric = "gamesPlayed"
	MetricGamesWon       Metric = "gamesWon"
	MetricCorrectAnswers Metric = "correctAnswers"
	MetricBestScore      Metric = "bestScore"
	MetricBestStreak     Metric = "bestStreak"
)

// GameStats are the lifetime statistics of one game on a profile.
type GameStats struct {
	GamesPlayed    int   `json:"gamesPlayed"`
	GamesWon       int   `json:"gamesWon"`
	TotalScore     int   `json:"totalScore"`
	BestScore      int   `json:"bestScore"`
	CorrectAnswers int   `json:"correctAnswers"`
	Attempted      int   `json:"attempted"`
	CurrentStreak  int   `json:"currentStreak"`
	BestStreak     int   `json:"bestStreak"`
	AnswerMillis   int64 `json:"answerMillis"`
}

// AvgAnswerMillis is the mean time per answered question, 0 when nothing was answered.
func (g GameStats) AvgAnswerMillis() int64 {
	if g.Attempted == 0 {
		return 0
	}
	return g.AnswerMillis / int64(g.Attempted)
}

// Value returns the statistic named by m.
func (g GameStats) Value(m Metric) int {
	switch m {
	case MetricTotalScore:
		return g.TotalScore
	case MetricGamesPlayed:
		return g.GamesPlayed
	case MetricGamesWon:
		return g.GamesWon
	case MetricCorrectAnswers:
		return g.CorrectAnswers
	case MetricBestScore:
		return g.BestScore
	case MetricBestStreak:
		return g.BestStreak
	}
	return 0
}

// UserProfile is the persisted per-account record.
type UserProfile struct {
	UID          string                 `json:"uid"`
	Email        string                 `json:"email"`
	Username     string                 `json:"username"`
	CreatedAt    time.Time              `json:"createdAt"`
	TotalScore   int                    `json:"totalScore"`
	GamesPlayed  int                    `json:"gamesPlayed"`
	Achievements []string               `json:"achievements"`
	Stats        map[GameKind]GameStats `json:"stats"`
}

// NewProfile returns a zeroed profile for a freshly signed up account.
func NewProfile(id Identity, now time.Time) UserProfile {
	return UserProfile{
		UID:          id.UID,
		Email:        id.Email,
		Username:     id.DisplayName,
		CreatedAt:    now,
		Achievements: []string{},
		Stats:        map[GameKind]GameStats{},
	}
}

// Stat returns the stats of game, zero valued when the game was never played.
func (p UserProfile) Stat(game GameKind) GameStats {
	if p.Stats == nil {
		return GameStats{}
	}
	return p.Stats[game]
}

// Value resolves a leaderboard metric. An empty game means the profile totals.
func (p UserProfile) Value(game GameKind, m Metric) int {
	if game == "" {
		if m == MetricGamesPlayed {
			return p.GamesPlayed
		}
		return p.TotalScore
	}
	return p.Stat(game).Value(m)
}

// HasAchievement reports whether id is already unlocked.
func (p UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// ProfileDelta is the increment-style change one finished session applies.
type ProfileDelta struct {
	Game         GameKind `json:"game"`
	Score        int      `json:"score"`
	Won          bool     `json:"won"`
	Correct      int      `json:"correct"`
	Attempted    int      `json:"attempted"`
	AnswerMillis int64    `json:"answerMillis"`
	// Streak is the trailing run of correct answers; StreakBroken is set when
	// the session contained a miss, so the stored current streak restarts from Streak.
	Streak       int  `json:"streak"`
	StreakBroken bool `json:"streakBroken"`
	BestStreak   int  `json:"bestStreak"`
}

// DeltaFor derives the profile delta of a session result.
func DeltaFor(res SessionResult) ProfileDelta {
	s := res.Stats
	return ProfileDelta{
		Game:         res.Game,
		Score:        s.Score,
		Won:          res.Won,
		Correct:      s.Correct,
		Attempted:    s.Attempted,
		AnswerMillis: s.AnswerMillis,
		Streak:       s.Streak,
		StreakBroken: s.Correct < s.Attempted,
		BestStreak:   s.BestStreak,
	}
}

// Apply returns a copy of p with d folded in. Stores that cannot express the
// update natively run it inside their own transaction.
func (p UserProfile) Apply(d ProfileDelta) UserProfile {
	out := p
	out.Stats = make(map[GameKind]GameStats, len(p.Stats)+1)
	for k, v := range p.Stats {
		out.Stats[k] = v
	}
	out.Achievements = append([]string(nil), p.Achievements...)

	out.TotalScore += d.Score
	out.GamesPlayed++

	g := out.Stats[d.Game]
	g.GamesPlayed++
	if d.Won {
		g.GamesWon++
	}
	g.TotalScore += d.Score
	g.BestScore = max(g.BestScore, d.Score)
	g.CorrectAnswers += d.Correct
	g.Attempted += d.Attempted
	g.AnswerMillis += d.AnswerMillis
	if d.StreakBroken {
		g.CurrentStreak = d.Streak
	} else {
		g.CurrentStreak += d.Streak
	}
	g.BestStreak = max(g.BestStreak, d.BestStreak, g.CurrentStreak)
	out.Stats[d.Game] = g
	return out
}

// Unlock returns a copy of p with ids appended, skipping ids already present.
func (p UserProfile) Unlock(ids ...string) UserProfile {
	out := p
	out.Achievements = append([]string(nil), p.Achievements...)
	for _, id := range ids {
		if !out.HasAchievement(id) {
			out.Achievements = append(out.Achievements, id)
		}
	}
	return out
}

// LocalStats are the device-scoped statistics kept without an account.
type LocalStats struct {
	Played      int `json:"played"`
	Won         int `json:"won"`
	Correct     int `json:"correct"`
	Attempted   int `json:"attempted"`
	Streak      int `json:"streak"`
	MaxStreak   int `json:"maxStreak"`
	TotalPoints int `json:"totalPoints"`
	BestScore   int `json:"bestScore"`
}

// Merge folds a session result into the local stats.
func (l LocalStats) Merge(res SessionResult) LocalStats {
	s := res.Stats
	l.Played++
	if res.Won {
		l.Won++
	}
	l.Correct += s.Correct
	l.Attempted += s.Attempted
	l.TotalPoints += s.Score
	l.BestScore = max(l.BestScore, s.Score)
	if s.Correct < s.Attempted {
		l.Streak = s.Streak
	} else {
		l.Streak += s.Streak
	}
	l.MaxStreak = max(l.MaxStreak, s.BestStreak, l.Streak)
	return l
}

// DailyChallenge is one of the per-user challenges of a calendar day.
type DailyChallenge struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Game        GameKind `json:"game"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Target      int      `json:"target"`
	Reward      int      `json:"reward"`
	Completed   bool     `json:"completed"`
}
