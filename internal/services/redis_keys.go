package services

import "time"

const (
	KeyWordGameActive   = "word_game:active:%s"
	KeyWordGameCooldown = "word_game:cooldown:%s"
	KeyWordSessionLock  = "word_game:session_lock:%s"
	KeyGameSession      = "game_session:%s:%s"
	KeyRewardClaimed    = "game_reward_claimed:%s:%s"
	KeyRewardWindow     = "game_reward_window:%s:%s:%d"
	KeyClaimCooldown    = "user:%s:claim_cooldown"
	KeyWheelCooldown    = "wheel:cooldown:%s"
	KeyButtonCooldown   = "magic_button:cooldown:%s"
	KeyRateLimit        = "ratelimit:%s:%s"

	GameTimer      = 900 * time.Second
	WinCooldown    = 82800 * time.Second
	LossCooldown   = 30 * time.Second
	DailyCooldown  = 82800 * time.Second
	StreakReset    = 169600 * time.Second
	SessionExpiry  = 1800 * time.Second
	RewardSession  = 7200 * time.Second
	RewardWindow   = 300 * time.Second
	ScrollWindow   = 60 * time.Second
	WheelCooldown  = 82800 * time.Second
	ButtonCooldown = 82800 * time.Second
	SessionLockTTL = 30 * time.Second

	MaxRewardPerWindow = 200
	MaxScrollPerMinute = 100
	MinGuessInterval   = time.Second
)
