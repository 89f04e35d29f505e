package services

import "testing"

func TestNextStreak(t *testing.T) {
	cooldown := DailyCooldown.Seconds()
	reset := StreakReset.Seconds()

	tests := []struct {
		name         string
		hasPrevious  bool
		secondsSince float64
		current      int
		want         int
	}{
		{"first claim ever", false, cooldown, 0, 1},
		{"claim right after cooldown", true, cooldown, 3, 4},
		{"claim at the reset boundary", true, cooldown + reset, 3, 4},
		{"claim just past the reset window", true, cooldown + reset + 1, 3, 1},
		{"long absence", true, cooldown + 10*reset, 42, 1},
	}

	for _, tt := range tests {
		if got := nextStreak(tt.hasPrevious, tt.secondsSince, tt.current); got != tt.want {
			t.Errorf("%s: nextStreak = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestClaimReward(t *testing.T) {
	tests := []struct {
		streak     int
		wantPax    int64
		wantScroll bool
	}{
		{1, 10, false},
		{6, 10, false},
		{7, 10, true},
		{8, 11, false},
		{14, 11, true},
		{15, 12, false},
		{21, 12, true},
		{22, 13, false},
	}

	for _, tt := range tests {
		pax, scroll := claimReward(tt.streak)
		if pax != tt.wantPax {
			t.Errorf("claimReward(%d) pax = %d, want %d", tt.streak, pax, tt.wantPax)
		}
		if scroll != tt.wantScroll {
			t.Errorf("claimReward(%d) scroll = %v, want %v", tt.streak, scroll, tt.wantScroll)
		}
	}
}
