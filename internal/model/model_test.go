package model

import "testing"

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{1, TierNews},
		{2, TierNews},
		{3, TierNews},
		{4, TierTrending},
		{5, TierTrending},
		{6, TierTrending},
		{7, TierHot},
		{8, TierHot},
		{9, TierBreaking},
		{10, TierBreaking},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
