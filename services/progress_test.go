package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no tasks", 0, 0, 0},
		{"none completed", 0, 5, 0},
		{"all completed", 5, 5, 100},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"half", 1, 2, 50},
		{"rounds half up", 1, 8, 13}, // 12.5 -> 13
		{"one of six", 1, 6, 17},     // 16.67 -> 17
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressPercent(tt.completed, tt.total))
		})
	}
}
