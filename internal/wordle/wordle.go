// Package wordle implements the WordBuzz guess grid: six attempts at a
// five-letter word with per-letter feedback.
package wordle

import (
	"strings"

	"brainbuzz/internal/domain"
)

const (
	WordLength = 5
	MaxRows    = 6
	// WinPoints is awarded for every solved word.
	WinPoints = 10
)

// Status is the feedback for one letter.
type Status string

const (
	StatusEmpty   Status = "empty"
	StatusAbsent  Status = "absent"
	StatusPresent Status = "present"
	StatusCorrect Status = "correct"
)

func (s Status) rank() int {
	switch s {
	case StatusCorrect:
		return 3
	case StatusPresent:
		return 2
	case StatusAbsent:
		return 1
	}
	return 0
}

// State is the overall game status.
type State string

const (
	Playing State = "playing"
	Won     State = "won"
	Lost    State = "lost"
)

// Cell is one letter of the grid.
type Cell struct {
	Letter string `json:"letter"`
	Status Status `json:"status"`
}

// GuessResult is returned for every accepted guess.
type GuessResult struct {
	Row         int               `json:"row"`
	Cells       []Cell            `json:"cells"`
	State       State             `json:"state"`
	GuessesUsed int               `json:"guessesUsed"`
	Keyboard    map[string]Status `json:"keyboard"`
	Target      string            `json:"target,omitempty"` // revealed once the game is over
}

// Game is one WordBuzz round. It is not safe for concurrent use.
type Game struct {
	target   string
	rows     [][]Cell
	row      int
	state    State
	keyboard map[string]Status
}

// New starts a game for target, which must be a five-letter word.
func New(target string) (*Game, error) {
	target, err := normalize(target)
	if err != nil {
		return nil, err
	}
	return &Game{
		target:   target,
		state:    Playing,
		keyboard: make(map[string]Status),
	}, nil
}

// Guess submits a word for the current row. Invalid words are rejected
// without consuming a row.
func (g *Game) Guess(word string) (GuessResult, error) {
	if g.state != Playing {
		return GuessResult{}, domain.ErrSessionEnded
	}
	guess, err := normalize(word)
	if err != nil {
		return GuessResult{}, err
	}

	statuses := Evaluate(g.target, guess)
	cells := make([]Cell, WordLength)
	for i, st := range statuses {
		letter := string(guess[i])
		cells[i] = Cell{Letter: letter, Status: st}
		if st.rank() > g.keyboard[letter].rank() {
			g.keyboard[letter] = st
		}
	}
	g.rows = append(g.rows, cells)
	row := g.row
	g.row++

	switch {
	case guess == g.target:
		g.state = Won
	case g.row >= MaxRows:
		g.state = Lost
	}
	return g.result(row, cells), nil
}

func (g *Game) result(row int, cells []Cell) GuessResult {
	res := GuessResult{
		Row:         row,
		Cells:       cells,
		State:       g.state,
		GuessesUsed: g.row,
		Keyboard:    g.Keyboard(),
	}
	if g.state != Playing {
		res.Target = g.target
	}
	return res
}

// Resign ends a running game as lost.
func (g *Game) Resign() {
	if g.state == Playing {
		g.state = Lost
	}
}

// State returns the game status.
func (g *Game) State() State { return g.state }

// GuessesUsed returns the number of accepted guesses.
func (g *Game) GuessesUsed() int { return g.row }

// Target returns the hidden word.
func (g *Game) Target() string { return g.target }

// Rows returns a copy of the evaluated rows.
func (g *Game) Rows() [][]Cell {
	out := make([][]Cell, len(g.rows))
	for i, r := range g.rows {
		out[i] = append([]Cell(nil), r...)
	}
	return out
}

// Keyboard returns the best status seen for every guessed letter.
func (g *Game) Keyboard() map[string]Status {
	out := make(map[string]Status, len(g.keyboard))
	for k, v := range g.keyboard {
		out[k] = v
	}
	return out
}

// Stats converts the finished game into session stats: one attempt, scored when solved.
func (g *Game) Stats() domain.SessionStats {
	var s domain.SessionStats
	if g.state == Playing {
		return s
	}
	s.Attempted = 1
	if g.state == Won {
		s.Score = WinPoints
		s.Correct = 1
		s.Streak = 1
		s.BestStreak = 1
	}
	return s
}

// Evaluate marks each letter of guess against target. Exact matches are
// claimed first so repeated letters are only marked present while unmatched
// copies remain in the target.
func Evaluate(target, guess string) []Status {
	out := make([]Status, len(guess))
	remaining := make(map[byte]int, len(target))
	for i := 0; i < len(guess); i++ {
		if i < len(target) && guess[i] == target[i] {
			out[i] = StatusCorrect
			continue
		}
		if i < len(target) {
			remaining[target[i]]++
		}
	}
	for i := len(guess); i < len(target); i++ {
		remaining[target[i]]++
	}
	for i := 0; i < len(guess); i++ {
		if out[i] == StatusCorrect {
			continue
		}
		if remaining[guess[i]] > 0 {
			out[i] = StatusPresent
			remaining[guess[i]]--
		} else {
			out[i] = StatusAbsent
		}
	}
	return out
}

func normalize(word string) (string, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if len(word) != WordLength {
		for _, r := range word {
			if r < 'A' || r > 'Z' {
				return "", domain.ErrInvalidLetters
			}
		}
		return "", domain.ErrIncompleteGuess
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return "", domain.ErrInvalidLetters
		}
	}
	return word, nil
}
