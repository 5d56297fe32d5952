package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialReadiness(t *testing.T) {
	tests := []struct {
		name         string
		missingCount int
		want         int
	}{
		{"no missing skills", 0, 100},
		{"one missing skill", 1, 85},
		{"three missing skills", 3, 55},
		{"five missing skills", 5, 25},
		{"floor at twenty", 6, 20},
		{"far past the floor", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitialReadiness(tt.missingCount))
		})
	}
}

func TestAdaptiveReadiness(t *testing.T) {
	assert.Equal(t, 100, AdaptiveReadiness(80, 4))
	assert.Equal(t, 60, AdaptiveReadiness(50, 2))
	assert.Equal(t, 50, AdaptiveReadiness(50, 0))
	assert.Equal(t, 100, AdaptiveReadiness(100, 1))
}

func TestAdaptiveReadiness_MonotoneAndCapped(t *testing.T) {
	base := 35
	prev := AdaptiveReadiness(base, 0)
	for n := 1; n <= 30; n++ {
		score := AdaptiveReadiness(base, n)
		assert.GreaterOrEqual(t, score, prev, "score must be non-decreasing in completed tasks")
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}
