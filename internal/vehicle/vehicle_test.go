package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func globalParams(t *testing.T) Params {
	t.Helper()
	p, err := NewParams(Variant{GenerationGlobal, TorqueClassStandard, true})
	require.NoError(t, err)
	return p
}

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(3, -1, 1))
	assert.Equal(t, -1.0, Clip(-3, -1, 1))
	assert.Equal(t, 0.5, Clip(0.5, -1, 1))
}

func TestApplySteerTorqueLimits(t *testing.T) {
	p := globalParams(t)

	tests := []struct {
		name   string
		apply  int
		last   int
		driver float64
		want   int
	}{
		{"ramp up from zero", 4095, 0, 0, 50},
		{"ramp up from positive", 4095, 50, 0, 100},
		{"ramp down", 0, 1000, 0, 930},
		{"ramp negative from zero", -4095, 0, 0, -50},
		{"ramp negative", -4095, -50, 0, -100},
		{"within ramp", 20, 0, 0, 20},
		{"driver window", 4095, 3690, -100, 3695},
		{"driver overpowers", 1000, 0, -500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplySteerTorqueLimits(tt.apply, tt.last, tt.driver, p))
		})
	}
}

func TestApplySteerTorqueLimitsBounded(t *testing.T) {
	p := globalParams(t)
	last := 0
	for i := 0; i < 200; i++ {
		next := ApplySteerTorqueLimits(p.SteerMax, last, 0, p)
		assert.LessOrEqual(t, next-last, p.SteerDeltaUp)
		assert.LessOrEqual(t, next, p.SteerMax)
		last = next
	}
	assert.Equal(t, p.SteerMax, last)
}
