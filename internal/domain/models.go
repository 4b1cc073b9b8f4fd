package domain

import "time"

// GameKind identifies one of the mini-games; it doubles as the route segment.
type GameKind string

const (
	GameWordle          GameKind = "wordle"
	GameFlagGuesser     GameKind = "flag-guesser"
	GameBrainChallenges GameKind = "brain-challenges"
	GameFoodQuiz        GameKind = "food-quiz"
	GameLogoGuesser     GameKind = "logo-guesser"
)

// Difficulty is the tier of a quiz item.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// PromptKind tells clients how to render a prompt.
type PromptKind string

const (
	PromptText  PromptKind = "text"
	PromptEmoji PromptKind = "emoji"
	PromptImage PromptKind = "image"
)

// NoChoice marks a round that has no selected answer (unanswered or timed out).
const NoChoice = -1

// QuizItem is one immutable question of a bank.
type QuizItem struct {
	ID          string     `json:"id" yaml:"id"`
	Prompt      string     `json:"prompt" yaml:"prompt"`
	PromptKind  PromptKind `json:"promptKind" yaml:"promptKind"`
	Options     []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Correct     int        `json:"correct" yaml:"correct"`
	Answer      string     `json:"answer,omitempty" yaml:"answer,omitempty"` // set when options are generated per round or absent
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Points      int        `json:"points" yaml:"points"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Explanation string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Bank is the ordered item pool of one game.
type Bank struct {
	Game  GameKind   `json:"game" yaml:"game"`
	Items []QuizItem `json:"items" yaml:"items"`
}

// RoundState is the single active round of a quiz controller.
type RoundState struct {
	Seq       int       `json:"seq"`
	Item      QuizItem  `json:"-"`
	Selected  int       `json:"selected"`
	Answered  bool      `json:"answered"`
	TimedOut  bool      `json:"timedOut"`
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline,omitempty"` // zero when rounds are untimed
}

// SessionStats accumulates the results of one play.
type SessionStats struct {
	Score        int   `json:"score"`
	Streak       int   `json:"streak"`
	BestStreak   int   `json:"bestStreak"`
	Attempted    int   `json:"attempted"`
	Correct      int   `json:"correct"`
	AnswerMillis int64 `json:"answerMillis"`
}

// Accuracy returns the share of correct answers in percent.
func (s SessionStats) Accuracy() int {
	if s.Attempted == 0 {
		return 0
	}
	return s.Correct * 100 / s.Attempted
}

// SessionResult is what a finished play hands to the recorder.
type SessionResult struct {
	PlayID      string       `json:"playId"`
	Game        GameKind     `json:"game"`
	Stats       SessionStats `json:"stats"`
	Won         bool         `json:"won"`
	GuessesUsed int          `json:"guessesUsed,omitempty"`
	StartedAt   time.Time    `json:"startedAt"`
	EndedAt     time.Time    `json:"endedAt"`
}

// NotificationKind classifies user-facing notices.
type NotificationKind string

const (
	NoticeAchievement NotificationKind = "achievement"
	NoticeInfo        NotificationKind = "info"
	NoticeError       NotificationKind = "error"
)

// Notification is a transient message for the player.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

// Identity is an authenticated account as seen by the service.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// LeaderboardEntry is a ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UID      string `json:"uid"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Leaderboard captures one ordered ranking.
type Leaderboard struct {
	Board     string             `json:"board"`
	Title     string             `json:"title"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
