package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{1.004, 1.0},
		{-1.005, -1.01},
		{0.125, 0.13},
		{0.1 + 0.2, 0.3},
		{150, 150},
		{0, 0},
		{1234567.891, 1234567.89},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.5, RoundTo(1.45, 1))
	assert.Equal(t, 2.0, RoundTo(1.5, 0))
	assert.Equal(t, 120.0, RoundTo(115, -1))
}

func TestRoundTo_NonFinite(t *testing.T) {
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
	assert.True(t, math.IsInf(Round2(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}
