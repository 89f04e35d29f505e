package models

import "math/rand"

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) IsOpposite(other Direction) bool {
	switch {
	case d == DirectionUp && other == DirectionDown:
		return true
	case d == DirectionDown && other == DirectionUp:
		return true
	case d == DirectionLeft && other == DirectionRight:
		return true
	case d == DirectionRight && other == DirectionLeft:
		return true
	}
	return false
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type FoodType string

const (
	FoodRegular FoodType = "regular"
	FoodScroll  FoodType = "scroll"
)

type Food struct {
	Position Position `json:"position"`
	Type     FoodType `json:"food_type"`
}

type SnakeGame struct {
	Snake      []Position `json:"snake"`
	Food       Food       `json:"food"`
	Direction  Direction  `json:"direction"`
	Score      int        `json:"score"`
	GridWidth  int        `json:"grid_width"`
	GridHeight int        `json:"grid_height"`
	GameOver   bool       `json:"game_over"`
	Started    bool       `json:"started"`
	NewBalance *int64     `json:"new_balance,omitempty"`
}

func NewSnakeGame(width, height int) *SnakeGame {
	center := Position{X: width / 2, Y: height / 2}
	g := &SnakeGame{
		Snake:      []Position{center},
		Direction:  DirectionRight,
		GridWidth:  width,
		GridHeight: height,
	}
	g.Food = g.generateFood()
	return g
}

// Update advances the game by one tick. When food was eaten it returns true
// along with the type of the eaten piece, before a replacement is placed.
func (g *SnakeGame) Update() (bool, FoodType) {
	if g.GameOver || !g.Started {
		return false, ""
	}

	head := g.Snake[0]
	switch g.Direction {
	case DirectionUp:
		head.Y--
	case DirectionDown:
		head.Y++
	case DirectionLeft:
		head.X--
	case DirectionRight:
		head.X++
	}

	if head.X < 0 || head.X >= g.GridWidth || head.Y < 0 || head.Y >= g.GridHeight {
		g.GameOver = true
		return false, ""
	}
	for _, seg := range g.Snake {
		if seg == head {
			g.GameOver = true
			return false, ""
		}
	}

	g.Snake = append([]Position{head}, g.Snake...)

	if head == g.Food.Position {
		eaten := g.Food.Type
		g.Score++
		g.Food = g.generateFood()
		return true, eaten
	}

	g.Snake = g.Snake[:len(g.Snake)-1]
	return false, ""
}

func (g *SnakeGame) generateFood() Food {
	var pos Position
	for {
		pos = Position{X: rand.Intn(g.GridWidth), Y: rand.Intn(g.GridHeight)}
		occupied := false
		for _, seg := range g.Snake {
			if seg == pos {
				occupied = true
				break
			}
		}
		if !occupied {
			break
		}
	}

	// Scroll food only shows up for longer runs, capped at a 2% chance.
	var scrollChance float64
	switch {
	case g.Score < 10:
		scrollChance = 0
	case g.Score < 25:
		scrollChance = 0.005
	case g.Score < 35:
		scrollChance = 0.01
	case g.Score < 45:
		scrollChance = 0.015
	default:
		scrollChance = 0.02
	}

	foodType := FoodRegular
	if scrollChance > 0 && rand.Float64() < scrollChance {
		foodType = FoodScroll
	}
	return Food{Position: pos, Type: foodType}
}

// CanChangeDirection rejects reversing straight into the snake's body.
func (g *SnakeGame) CanChangeDirection(from, to Direction) bool {
	return !from.IsOpposite(to)
}

type SnakeMessageType string

const (
	SnakeMsgStart           SnakeMessageType = "start"
	SnakeMsgChangeDirection SnakeMessageType = "change_direction"
	SnakeMsgGameOver        SnakeMessageType = "game_over"
	SnakeMsgScrollCollected SnakeMessageType = "scroll_collected"
)

// SnakeMessage is the control envelope on the snake websocket. Game state
// frames are the serialized SnakeGame itself.
type SnakeMessage struct {
	Type      SnakeMessageType `json:"type"`
	Direction Direction        `json:"direction,omitempty"`
}
