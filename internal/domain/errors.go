package domain

import "errors"

var (
	// ErrPlayNotFound is returned when a game session id is unknown or already closed.
	ErrPlayNotFound = errors.New("play not found")
	// ErrGameNotFound indicates the requested game kind is not in the catalog.
	ErrGameNotFound = errors.New("game not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned when a bank has no playable items.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrProfileNotFound indicates the account has no stored profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when signing up an account that already has a profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrRoundNotActive is returned when answering with no round in progress.
	ErrRoundNotActive = errors.New("no active round")
	// ErrRoundAnswered is returned when a round already received its answer.
	ErrRoundAnswered = errors.New("round already answered")
	// ErrRoundActive is returned when starting a round before the current one is answered.
	ErrRoundActive = errors.New("round still in progress")
	// ErrInvalidChoice indicates an option index outside the item's options.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrSessionEnded is returned for any move after the session finished.
	ErrSessionEnded = errors.New("session ended")
	// ErrWrongGame is returned when a move does not belong to the play's game.
	ErrWrongGame = errors.New("move not supported by this game")

	// ErrIncompleteGuess is a local validation failure for word guesses.
	ErrIncompleteGuess = errors.New("guess must be exactly five letters")
	// ErrInvalidLetters indicates a guess contains characters outside A-Z.
	ErrInvalidLetters = errors.New("guess may only contain letters A-Z")

	// ErrUnauthenticated is returned when a token is missing or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned by password sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists is returned when signing up with a taken email.
	ErrAccountExists = errors.New("account already exists")
	// ErrUnsupported indicates the configured backend cannot perform the operation.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrUnknownBoard indicates a leaderboard name outside the catalog.
	ErrUnknownBoard = errors.New("unknown leaderboard")
)
