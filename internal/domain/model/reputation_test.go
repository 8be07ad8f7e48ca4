package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForReputation(t *testing.T) {
	tests := []struct {
		name         string
		reputation   int
		wantLevel    string
		wantMin      int
		wantMax      int
		wantProgress float64
	}{
		{"zero is novice floor", 0, "Novice", 0, 99, 0},
		{"novice mid band", 50, "Novice", 0, 99, 50},
		{"novice ceiling", 99, "Novice", 0, 99, 99},
		{"expert floor", 100, "Expert", 100, 499, 0},
		{"expert mid band", 300, "Expert", 100, 499, 50},
		{"expert ceiling", 499, "Expert", 100, 499, 99.75},
		{"master floor", 500, "Master", 500, 999, 0},
		{"master mid band", 750, "Master", 500, 999, 50},
		{"master progress clamps", 2000, "Master", 500, 999, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := LevelForReputation(tt.reputation)
			assert.Equal(t, tt.wantLevel, level.Level)
			assert.Equal(t, tt.wantMin, level.MinReputation)
			assert.Equal(t, tt.wantMax, level.MaxReputation)
			assert.InDelta(t, tt.wantProgress, level.ProgressPercentage, 0.0001)
		})
	}
}
