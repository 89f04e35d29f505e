package models

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

type TileStatus string

const (
	TileGreen  TileStatus = "green"
	TileYellow TileStatus = "yellow"
	TileGray   TileStatus = "gray"
)

type LetterTile struct {
	Letter string     `json:"letter"`
	Status TileStatus `json:"status"`
}

const AllowedGuesses = 7

// BadGuessError is a rejected guess that leaves the game untouched. It is
// reported to the client inside a normal guess response, not as an HTTP
// error, so the board can show feedback.
type BadGuessError struct {
	Reason  string // "length", "alphabetic" or "duplicate"
	Message string
}

func (e *BadGuessError) Error() string {
	return e.Message
}

// WordGame holds the secret state of a single word puzzle. The secret word
// never crosses the process boundary until the game reaches a terminal
// state; handlers only ever see the Public projection.
type WordGame struct {
	SecretWord       string
	AllowedGuesses   int
	RemainingGuesses int
	Guesses          []string
	TilesHistory     [][]LetterTile
	Solved           bool
}

func NewWordGame(secret string) *WordGame {
	return &WordGame{
		SecretWord:       strings.ToLower(secret),
		AllowedGuesses:   AllowedGuesses,
		RemainingGuesses: AllowedGuesses,
		Guesses:          []string{},
		TilesHistory:     [][]LetterTile{},
	}
}

// ProcessGuess validates and evaluates a single guess. It returns whether
// the guess solved the puzzle and the per-letter tiles. A *BadGuessError
// means nothing was recorded.
func (g *WordGame) ProcessGuess(raw string) (bool, []LetterTile, error) {
	guess := strings.ToLower(strings.TrimSpace(raw))
	if len(guess) != len(g.SecretWord) {
		return false, nil, &BadGuessError{
			Reason:  "length",
			Message: fmt.Sprintf("Guess must be %d letters long", len(g.SecretWord)),
		}
	}
	for _, r := range guess {
		if !unicode.IsLetter(r) {
			return false, nil, &BadGuessError{
				Reason:  "alphabetic",
				Message: "Guess must contain only alphabetic characters",
			}
		}
	}
	for _, prev := range g.Guesses {
		if prev == guess {
			return false, nil, &BadGuessError{
				Reason:  "duplicate",
				Message: "You already guessed that",
			}
		}
	}

	tiles := evaluateTiles(guess, g.SecretWord)

	g.Guesses = append(g.Guesses, guess)
	g.TilesHistory = append(g.TilesHistory, tiles)
	if g.RemainingGuesses > 0 {
		g.RemainingGuesses--
	}

	correct := guess == g.SecretWord
	if correct {
		g.Solved = true
	}
	return correct, tiles, nil
}

// evaluateTiles is the standard two-pass rule: greens consume their secret
// position first, then remaining letters scan left to right for an
// unconsumed match (yellow) or get gray.
func evaluateTiles(guess, secret string) []LetterTile {
	guessChars := []rune(guess)
	secretChars := []rune(secret)
	tiles := make([]LetterTile, len(guessChars))
	consumed := make([]bool, len(secretChars))

	for i, ch := range guessChars {
		tiles[i].Letter = string(ch)
		if i < len(secretChars) && ch == secretChars[i] {
			tiles[i].Status = TileGreen
			consumed[i] = true
		}
	}

	for i, ch := range guessChars {
		if tiles[i].Status != "" {
			continue
		}
		tiles[i].Status = TileGray
		for j, sch := range secretChars {
			if !consumed[j] && ch == sch {
				tiles[i].Status = TileYellow
				consumed[j] = true
				break
			}
		}
	}

	return tiles
}

// Exhausted reports whether the player has used every guess.
func (g *WordGame) Exhausted() bool {
	return len(g.Guesses) >= g.AllowedGuesses || g.RemainingGuesses == 0
}

// Pad fills the guess and tile history with empty rows up to the allowed
// count, marking the board for a force-ended game.
func (g *WordGame) Pad() {
	for len(g.Guesses) < g.AllowedGuesses {
		g.Guesses = append(g.Guesses, "")
		g.TilesHistory = append(g.TilesHistory, []LetterTile{})
	}
}

type PublicWordGame struct {
	AllowedGuesses   int            `json:"allowed_guesses"`
	RemainingGuesses int            `json:"remaining_guesses"`
	Guesses          []string       `json:"guesses"`
	TilesHistory     [][]LetterTile `json:"tiles_history"`
	Solved           bool           `json:"solved"`
	WordLength       int            `json:"word_length"`
	Solution         string         `json:"solution,omitempty"`
	CreatedAt        int64          `json:"created_at,omitempty"`
}

// Public projects the game for clients. The solution is included only once
// the game is decided; ended covers force-terminated sessions.
func (g *WordGame) Public(ended bool) PublicWordGame {
	pub := PublicWordGame{
		AllowedGuesses:   g.AllowedGuesses,
		RemainingGuesses: g.RemainingGuesses,
		Guesses:          append([]string{}, g.Guesses...),
		TilesHistory:     append([][]LetterTile{}, g.TilesHistory...),
		Solved:           g.Solved,
		WordLength:       len(g.SecretWord),
	}
	if g.Solved || len(g.Guesses) >= g.AllowedGuesses || ended {
		pub.Solution = g.SecretWord
	}
	return pub
}

// WordGameSession binds a game to its owner. Sessions live in the in-memory
// registry only and do not survive a restart.
type WordGameSession struct {
	SessionID        string
	UserID           uuid.UUID
	Game             *WordGame
	CreatedAt        int64
	LastGuessTime    int64
	GameSessionToken string
	Ended            bool
}

type NewWordGameResponse struct {
	SessionID        string         `json:"session_id"`
	SessionSignature string         `json:"session_signature"`
	Game             PublicWordGame `json:"game"`
}

type GuessRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Guess     string `json:"guess" binding:"required"`
}

type GuessResponse struct {
	Correct    bool           `json:"correct"`
	Game       PublicWordGame `json:"game"`
	Message    string         `json:"message"`
	Tiles      []LetterTile   `json:"tiles"`
	NewBalance *int64         `json:"new_balance,omitempty"`
}

type RefreshResponse struct {
	Game PublicWordGame `json:"game"`
}

type WordCooldownStatus struct {
	InCooldown         bool  `json:"in_cooldown"`
	RemainingSeconds   int64 `json:"remaining_seconds,omitempty"`
	IsWinCooldown      bool  `json:"is_win_cooldown"`
	RequiresMembership bool  `json:"requires_membership"`
}

type WordLeaderboardEntry struct {
	Username          string `json:"username"`
	CurrentStreak     int    `json:"current_streak"`
	HighestStreak     int    `json:"highest_streak"`
	FastestTime       *int   `json:"fastest_time"`
	TotalWordsGuessed int    `json:"total_words_guessed"`
	TotalGamesPlayed  int    `json:"total_games_played"`
	UpdatedAt         string `json:"updated_at"`
}
