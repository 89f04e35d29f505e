package services

import (
	"testing"

	"creaturegrove-backend/internal/models"
)

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		roll    float64
		want    models.RewardType
		wantPax int64
	}{
		{0, models.RewardTinyPax, 10},
		{34.999, models.RewardTinyPax, 10},
		{35, models.RewardSmallPax, 20},
		{59.999, models.RewardSmallPax, 20},
		{60, models.RewardScroll, 0},
		{84.999, models.RewardScroll, 0},
		{85, models.RewardBigPax, 50},
		{99.999, models.RewardBigPax, 50},
	}

	for _, tt := range tests {
		rewardType, pax := classify(tt.roll)
		if rewardType != tt.want {
			t.Errorf("classify(%v) type = %s, want %s", tt.roll, rewardType, tt.want)
		}
		if pax != tt.wantPax {
			t.Errorf("classify(%v) pax = %d, want %d", tt.roll, pax, tt.wantPax)
		}
	}
}

func TestDrawNumberRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		r, err := drawNumber()
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		if r < 0 || r >= 100 {
			t.Fatalf("draw %v out of [0, 100)", r)
		}
	}
}
