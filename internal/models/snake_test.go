package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creaturegrove-backend/internal/models"
)

func TestSnakeGameMovesAndEats(t *testing.T) {
	game := models.NewSnakeGame(20, 20)
	game.Started = true

	head := game.Snake[0]
	game.Food = models.Food{
		Position: models.Position{X: head.X + 1, Y: head.Y},
		Type:     models.FoodScroll,
	}

	ate, eaten := game.Update()
	require.True(t, ate)
	assert.Equal(t, models.FoodScroll, eaten)
	assert.Equal(t, 1, game.Score)
	assert.Len(t, game.Snake, 2)

	// Replacement food never lands on the snake.
	for _, seg := range game.Snake {
		assert.NotEqual(t, seg, game.Food.Position)
	}

	// A plain move keeps the length constant.
	game.Food = models.Food{Position: models.Position{X: 0, Y: 0}, Type: models.FoodRegular}
	ate, _ = game.Update()
	assert.False(t, ate)
	assert.Len(t, game.Snake, 2)
}

func TestSnakeGameWallCollision(t *testing.T) {
	game := models.NewSnakeGame(20, 20)
	game.Started = true
	game.Snake = []models.Position{{X: 19, Y: 10}}
	game.Direction = models.DirectionRight

	ate, _ := game.Update()
	assert.False(t, ate)
	assert.True(t, game.GameOver)

	// A finished game no longer advances.
	ate, _ = game.Update()
	assert.False(t, ate)
}

func TestSnakeGameSelfCollision(t *testing.T) {
	game := models.NewSnakeGame(20, 20)
	game.Started = true
	game.Snake = []models.Position{
		{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5},
	}
	game.Direction = models.DirectionRight
	game.Food = models.Food{Position: models.Position{X: 0, Y: 0}, Type: models.FoodRegular}

	game.Update()
	assert.True(t, game.GameOver)
}

func TestSnakeGameIgnoresUpdatesBeforeStart(t *testing.T) {
	game := models.NewSnakeGame(20, 20)

	ate, _ := game.Update()
	assert.False(t, ate)
	assert.Equal(t, []models.Position{{X: 10, Y: 10}}, game.Snake)
}

func TestCanChangeDirection(t *testing.T) {
	game := models.NewSnakeGame(20, 20)

	assert.True(t, game.CanChangeDirection(models.DirectionRight, models.DirectionUp))
	assert.True(t, game.CanChangeDirection(models.DirectionRight, models.DirectionRight))
	assert.False(t, game.CanChangeDirection(models.DirectionRight, models.DirectionLeft))
	assert.False(t, game.CanChangeDirection(models.DirectionUp, models.DirectionDown))
}
