package models

// ScrollRewardDay is the streak day on which the daily claim pays a scroll.
const ScrollRewardDay = 7

type GameType string

const (
	GameTypeMatch GameType = "match"
	GameTypeSnake GameType = "snake"
	GameType2048  GameType = "2048"
	GameTypeWord  GameType = "word"
)

// ValidPaxGame reports whether the kind may earn pax rewards.
func ValidPaxGame(gt GameType) bool {
	switch gt {
	case GameTypeMatch, GameTypeSnake, GameType2048, GameTypeWord:
		return true
	}
	return false
}

// ValidScrollGame reports whether the kind may earn scroll rewards.
// 2048 pays pax only.
func ValidScrollGame(gt GameType) bool {
	switch gt {
	case GameTypeMatch, GameTypeSnake, GameTypeWord:
		return true
	}
	return false
}

type GameRewardRequest struct {
	SessionToken string   `json:"session_token" binding:"required"`
	GameType     GameType `json:"game_type" binding:"required"`
	Score        int      `json:"score"`
	Timestamp    int64    `json:"timestamp" binding:"required"`
}

type GameRewardResponse struct {
	Success    bool   `json:"success"`
	NewBalance int64  `json:"new_balance"`
	Error      string `json:"error,omitempty"`
}

type ClaimResult struct {
	Success           bool   `json:"success"`
	NewBalance        int64  `json:"new_balance,omitempty"`
	RemainingCooldown int64  `json:"remaining_cooldown"`
	ClaimStreak       int    `json:"claim_streak"`
	ScrollReward      bool   `json:"scroll_reward"`
	Message           string `json:"message,omitempty"`
}

type ClaimStatus struct {
	RemainingCooldown  int64  `json:"remaining_cooldown"`
	ClaimStreak        int    `json:"claim_streak"`
	LastClaimTime      *int64 `json:"last_claim_time"`
	RequiresMembership bool   `json:"requires_membership,omitempty"`
}

type RewardType string

const (
	RewardScroll   RewardType = "scroll"
	RewardBigPax   RewardType = "big_pax"
	RewardSmallPax RewardType = "small_pax"
	RewardTinyPax  RewardType = "tiny_pax"
)

type WheelSpinResult struct {
	Success      bool       `json:"success"`
	IsWin        bool       `json:"is_win"`
	RewardType   RewardType `json:"reward_type,omitempty"`
	NewBalance   int64      `json:"new_balance"`
	ResultNumber *float64   `json:"result_number,omitempty"`
	Message      string     `json:"message,omitempty"`
}

type MagicButtonClick struct {
	Username     string `json:"username"`
	ClickedAt    string `json:"clicked_at"`
	RewardAmount int    `json:"reward_amount"`
}

type MagicButtonResult struct {
	Success           bool               `json:"success"`
	RewardAmount      *int               `json:"reward_amount"`
	CooldownRemaining int64              `json:"cooldown_remaining"`
	LastClicks        []MagicButtonClick `json:"last_click"`
	NewBalance        *int64             `json:"new_balance"`
	TotalClicks       int64              `json:"total_clicks"`
}
