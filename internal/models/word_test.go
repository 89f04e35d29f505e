package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creaturegrove-backend/internal/models"
)

func tileStatuses(tiles []models.LetterTile) []models.TileStatus {
	statuses := make([]models.TileStatus, len(tiles))
	for i, tile := range tiles {
		statuses[i] = tile.Status
	}
	return statuses
}

func TestProcessGuessTileColors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   []models.TileStatus
	}{
		{
			name:   "all green on exact match",
			secret: "apple",
			guess:  "apple",
			want: []models.TileStatus{
				models.TileGreen, models.TileGreen, models.TileGreen,
				models.TileGreen, models.TileGreen,
			},
		},
		{
			name:   "repeated letters consume secret positions once",
			secret: "apple",
			guess:  "pzppa",
			want: []models.TileStatus{
				models.TileYellow, models.TileGray, models.TileGreen,
				models.TileGray, models.TileYellow,
			},
		},
		{
			name:   "green consumes before yellow scan",
			secret: "abbey",
			guess:  "babes",
			want: []models.TileStatus{
				models.TileYellow, models.TileYellow, models.TileGreen,
				models.TileGreen, models.TileGray,
			},
		},
		{
			name:   "uppercase guesses are normalized",
			secret: "stone",
			guess:  "NOTES",
			want: []models.TileStatus{
				models.TileYellow, models.TileYellow, models.TileYellow,
				models.TileYellow, models.TileYellow,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := models.NewWordGame(tt.secret)
			correct, tiles, err := game.ProcessGuess(tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tileStatuses(tiles))
			assert.Equal(t, tt.secret == tt.guess, correct)
		})
	}
}

func TestProcessGuessRejections(t *testing.T) {
	game := models.NewWordGame("apple")

	_, _, err := game.ProcessGuess("app")
	var badGuess *models.BadGuessError
	require.ErrorAs(t, err, &badGuess)
	assert.Equal(t, "length", badGuess.Reason)

	_, _, err = game.ProcessGuess("app1e")
	require.ErrorAs(t, err, &badGuess)
	assert.Equal(t, "alphabetic", badGuess.Reason)

	_, _, err = game.ProcessGuess("grape")
	require.NoError(t, err)

	_, _, err = game.ProcessGuess("GRAPE")
	require.ErrorAs(t, err, &badGuess)
	assert.Equal(t, "duplicate", badGuess.Reason)

	// Rejected guesses must not consume an attempt.
	assert.Equal(t, models.AllowedGuesses-1, game.RemainingGuesses)
	assert.Len(t, game.Guesses, 1)
}

func TestExhaustedAfterAllowedGuesses(t *testing.T) {
	game := models.NewWordGame("apple")
	guesses := []string{"grape", "mango", "lemon", "peach", "berry", "melon", "guava"}

	for i, guess := range guesses {
		assert.False(t, game.Exhausted(), "exhausted after %d guesses", i)
		correct, _, err := game.ProcessGuess(guess)
		require.NoError(t, err)
		assert.False(t, correct)
	}

	assert.True(t, game.Exhausted())
	assert.Equal(t, 0, game.RemainingGuesses)
}

func TestPublicHidesSolutionUntilDecided(t *testing.T) {
	game := models.NewWordGame("apple")

	pub := game.Public(false)
	assert.Empty(t, pub.Solution)
	assert.Equal(t, 5, pub.WordLength)

	_, _, err := game.ProcessGuess("grape")
	require.NoError(t, err)
	assert.Empty(t, game.Public(false).Solution)

	// A force-ended game reveals the word even with guesses left.
	assert.Equal(t, "apple", game.Public(true).Solution)

	correct, _, err := game.ProcessGuess("apple")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.True(t, game.Solved)
	assert.Equal(t, "apple", game.Public(false).Solution)
}

func TestPadFillsRemainingRows(t *testing.T) {
	game := models.NewWordGame("apple")
	_, _, err := game.ProcessGuess("grape")
	require.NoError(t, err)

	game.Pad()
	assert.Len(t, game.Guesses, models.AllowedGuesses)
	assert.Len(t, game.TilesHistory, models.AllowedGuesses)
	assert.Equal(t, "grape", game.Guesses[0])
	assert.Empty(t, game.Guesses[1])
}
