package subaru

import (
	"log"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
)

func newStopAndGo(params vehicle.Params) stopAndGo {
	return stopAndGo{
		params:            params,
		state:             SnGMoving,
		referenceDistance: params.SnGDistanceLimit,
	}
}

// The car only reports HOLD while standing still, so leaving HOLD means it is
// moving again or the driver took over.
func (s *stopAndGo) reset() {
	s.state = SnGMoving
	s.tapCount = 0
	s.hasReference = false
	s.referenceDistance = s.params.SnGDistanceLimit
}

// update advances one cycle and returns the throttle value to send in place of
// the car's own, with false meaning pass the car's value through.
func (s *stopAndGo) update(enabled bool, cs *models.CarState) (float64, bool) {
	if cs.CruiseState != models.CruiseStateHold {
		if s.state != SnGMoving {
			s.reset()
		}
		return 0, false
	}

	if s.state == SnGMoving {
		s.state = SnGHoldWaitingSettle
		s.holdEnteredAt = cs.MonoTime
		s.hasReference = false
		s.referenceDistance = s.params.SnGDistanceLimit
	}

	// close distance jitters right after stopping, wait before taking the reference
	if s.state == SnGHoldWaitingSettle && enabled && cs.MonoTime > s.holdEnteredAt+s.params.SnGSettleTime {
		s.referenceDistance = s.params.SnGDistanceLimit
		if cs.CloseDistance < s.referenceDistance {
			s.referenceDistance = cs.CloseDistance
		}
		s.hasReference = true
		s.state = SnGHoldReferenceRecorded
	}

	// Car_Follow filters out pedestrians and cyclists crossing in front
	departed := enabled &&
		cs.CloseDistance > s.referenceDistance+s.params.SnGDistanceDeadband &&
		cs.CloseDistance < s.params.CloseDistanceSaturation &&
		cs.CarFollow

	switch s.state {
	case SnGHoldWaitingSettle, SnGHoldReferenceRecorded:
		if departed {
			log.Printf("lead departed (distance %.0f, reference %.0f), tapping throttle\n", cs.CloseDistance, s.referenceDistance)
			s.state = SnGTapping
		}
	case SnGTapping:
		if !departed {
			s.state = s.holdState()
		}
	}

	if s.state != SnGTapping {
		return 0, false
	}

	if s.tapCount < s.params.ThrottleTapLimit {
		s.tapCount++
		return s.params.ThrottleTapLevel, true
	}

	log.Printf("throttle tap limit reached after %d taps\n", s.tapCount)
	s.state = SnGHoldTapsExhausted
	return 0, false
}

func (s *stopAndGo) holdState() SnGState {
	if s.hasReference {
		return SnGHoldReferenceRecorded
	}
	return SnGHoldWaitingSettle
}
