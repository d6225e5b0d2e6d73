package subaru

import (
	"testing"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func holdState(monoMs int, distance float64, follow bool) *models.CarState {
	return &models.CarState{
		MonoTime:      msDuration(monoMs),
		CruiseState:   models.CruiseStateHold,
		CloseDistance: distance,
		CarFollow:     follow,
	}
}

func TestStopAndGoSettleAndReference(t *testing.T) {
	s := newStopAndGo(testParams(t, globalStandard))

	_, override := s.update(true, holdState(0, 20, true))
	assert.False(t, override)
	assert.Equal(t, SnGHoldWaitingSettle, s.state)

	s.update(true, holdState(100, 20, true))
	assert.Equal(t, SnGHoldWaitingSettle, s.state)
	assert.False(t, s.hasReference)

	s.update(true, holdState(250, 20, true))
	assert.Equal(t, SnGHoldReferenceRecorded, s.state)
	assert.Equal(t, 20.0, s.referenceDistance)

	// the reference is taken once per hold
	s.update(true, holdState(300, 25, true))
	assert.Equal(t, 20.0, s.referenceDistance)
	assert.Equal(t, SnGHoldReferenceRecorded, s.state)
}

func TestStopAndGoReferenceCappedAtLimit(t *testing.T) {
	s := newStopAndGo(testParams(t, globalStandard))

	s.update(true, holdState(0, 255, false))
	s.update(true, holdState(250, 255, false))
	assert.True(t, s.hasReference)
	assert.Equal(t, 120.0, s.referenceDistance)
}

func TestStopAndGoTapsBounded(t *testing.T) {
	p := testParams(t, globalStandard)
	s := newStopAndGo(p)

	s.update(true, holdState(0, 20, true))
	s.update(true, holdState(250, 20, true))
	require.Equal(t, SnGHoldReferenceRecorded, s.state)

	for i := 0; i < p.ThrottleTapLimit; i++ {
		throttle, override := s.update(true, holdState(260+i*10, 40, true))
		require.True(t, override, "tap %d", i)
		assert.Equal(t, p.ThrottleTapLevel, throttle)
		assert.Equal(t, SnGTapping, s.state)
	}

	_, override := s.update(true, holdState(400, 40, true))
	assert.False(t, override)
	assert.Equal(t, SnGHoldTapsExhausted, s.state)

	_, override = s.update(true, holdState(500, 60, true))
	assert.False(t, override)
	assert.Equal(t, SnGHoldTapsExhausted, s.state)
}

func TestStopAndGoTapNeedsLead(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		distance float64
		follow   bool
	}{
		{"no car follow", true, 40, false},
		{"within deadband", true, 30, true},
		{"saturated distance", true, 255, true},
		{"disengaged", false, 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStopAndGo(testParams(t, globalStandard))
			s.update(true, holdState(0, 20, true))
			s.update(true, holdState(250, 20, true))

			_, override := s.update(tt.enabled, holdState(260, tt.distance, tt.follow))
			assert.False(t, override)
			assert.NotEqual(t, SnGTapping, s.state)
		})
	}
}

func TestStopAndGoLeadReturnsDuringTapping(t *testing.T) {
	p := testParams(t, globalStandard)
	s := newStopAndGo(p)
	s.update(true, holdState(0, 20, true))
	s.update(true, holdState(250, 20, true))

	s.update(true, holdState(260, 40, true))
	s.update(true, holdState(270, 40, true))
	require.Equal(t, 2, s.tapCount)

	_, override := s.update(true, holdState(280, 20, true))
	assert.False(t, override)
	assert.Equal(t, SnGHoldReferenceRecorded, s.state)
	assert.Equal(t, 2, s.tapCount)

	// the tap budget is per hold, not per departure
	taps := 0
	for i := 0; i < 10; i++ {
		if _, override := s.update(true, holdState(290+i*10, 40, true)); override {
			taps++
		}
	}
	assert.Equal(t, p.ThrottleTapLimit-2, taps)
	assert.Equal(t, SnGHoldTapsExhausted, s.state)
}

func TestStopAndGoTapBeforeReference(t *testing.T) {
	s := newStopAndGo(testParams(t, globalStandard))

	// lead already well past the distance limit before the settle time
	throttle, override := s.update(true, holdState(0, 150, true))
	assert.True(t, override)
	assert.Equal(t, 5.0, throttle)
	assert.Equal(t, SnGTapping, s.state)
	assert.False(t, s.hasReference)
}

func TestStopAndGoResetOnLeavingHold(t *testing.T) {
	s := newStopAndGo(testParams(t, globalStandard))
	s.update(true, holdState(0, 20, true))
	s.update(true, holdState(250, 20, true))
	s.update(true, holdState(260, 40, true))

	_, override := s.update(true, &models.CarState{MonoTime: msDuration(270), CruiseState: models.CruiseStateActive})
	assert.False(t, override)
	assert.Equal(t, SnGMoving, s.state)
	assert.Equal(t, 0, s.tapCount)
	assert.False(t, s.hasReference)

	// a new hold starts a fresh episode
	s.update(true, holdState(1000, 30, true))
	assert.Equal(t, SnGHoldWaitingSettle, s.state)
	s.update(true, holdState(1250, 30, true))
	assert.Equal(t, 30.0, s.referenceDistance)
}
