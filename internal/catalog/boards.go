package catalog

import (
	"fmt"

	"brainbuzz/internal/domain"
)

// Board is a leaderboard: profiles ordered by one metric, optionally of one game.
type Board struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Game   domain.GameKind `json:"game,omitempty"` // empty ranks profile totals
	Metric domain.Metric   `json:"metric"`
}

// BoardOverall ranks profiles by total score across all games.
const BoardOverall = "overall"

var boards = []Board{
	{ID: BoardOverall, Title: "Overall", Metric: domain.MetricTotalScore},
	{ID: string(domain.GameWordle), Title: "WordBuzz wins", Game: domain.GameWordle, Metric: domain.MetricGamesWon},
	{ID: string(domain.GameBrainChallenges), Title: "Brain Challenges correct answers", Game: domain.GameBrainChallenges, Metric: domain.MetricCorrectAnswers},
	{ID: string(domain.GameFlagGuesser), Title: "Flag Guesser score", Game: domain.GameFlagGuesser, Metric: domain.MetricTotalScore},
	{ID: string(domain.GameFoodQuiz), Title: "Food Quiz score", Game: domain.GameFoodQuiz, Metric: domain.MetricTotalScore},
	{ID: string(domain.GameLogoGuesser), Title: "Logo Guesser score", Game: domain.GameLogoGuesser, Metric: domain.MetricTotalScore},
}

// Boards lists the available leaderboards.
func Boards() []Board {
	return append([]Board(nil), boards...)
}

func LookupBoard(id string) (Board, error) {
	for _, b := range boards {
		if b.ID == id {
			return b, nil
		}
	}
	return Board{}, fmt.Errorf("%w: %s", domain.ErrUnknownBoard, id)
}
