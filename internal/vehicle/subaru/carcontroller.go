package subaru

import (
	"fmt"
	"log"
	"math"

	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
)

func NewCarController(variant vehicle.Variant, params vehicle.Params, d *dbc.DBC) (*CarController, error) {
	err := variant.Validate()
	if err != nil {
		return nil, fmt.Errorf("error: refusing to build controller: %w", err)
	}
	err = params.Validate()
	if err != nil {
		return nil, fmt.Errorf("error: refusing to build controller: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("error: refusing to build controller: no bus table")
	}

	return &CarController{
		variant:          variant,
		params:           params,
		dbc:              d,
		esDistanceCnt:    noCounter,
		esAccelCnt:       noCounter,
		esLkasCnt:        noCounter,
		throttleCnt:      noCounter,
		dashlightsCnt:    noCounter,
		cruiseButtonPrev: cruiseButtonNone,
		autoStopStart:    autoStopStartPending,
		sng:              newStopAndGo(params),
	}, nil
}

// Update runs one control cycle and returns the frames to send in order:
// steering, stop-start suppression, throttle, cruise and alerts.
func (c *CarController) Update(enabled bool, cs *models.CarState, frame int, actuators models.Actuators,
	pcmCancel bool, visualAlert models.VisualAlert, lanes models.LaneFlags) []models.CanMessage {

	canSends := make([]models.CanMessage, 0, 5)

	if frame%c.params.SteerStep == 0 {
		canSends = append(canSends, c.updateSteering(enabled, cs, frame, actuators))
	}

	if c.variant.IsPreGlobal() {
		canSends = c.updatePreGlobalCruise(cs, pcmCancel, canSends)
		return canSends
	}

	if c.params.DisableAutoStopStart {
		canSends = c.updateAutoStopStart(cs, canSends)
	}

	throttleCmd, override := c.sng.update(enabled, cs)
	if counterAdvanced(cs.ThrottleMsg, &c.throttleCnt) {
		canSends = append(canSends, createThrottle(c.dbc, cs.ThrottleMsg, throttleCmd, override))
	}

	if counterAdvanced(cs.EsDistanceMsg, &c.esDistanceCnt) {
		canSends = append(canSends, createEsDistance(c.dbc, cs.EsDistanceMsg, pcmCancel))
	}
	if counterAdvanced(cs.EsLkasStateMsg, &c.esLkasCnt) {
		canSends = append(canSends, createEsLkasState(c.dbc, cs.EsLkasStateMsg, visualAlert, lanes))
	}

	return canSends
}

func (c *CarController) updateSteering(enabled bool, cs *models.CarState, frame int, actuators models.Actuators) models.CanMessage {
	steer := vehicle.Clip(actuators.Steer, -1, 1)
	if math.IsNaN(steer) {
		steer = 0
	}
	newSteer := int(math.Round(steer * float64(c.params.SteerMax)))

	applySteer := vehicle.ApplySteerTorqueLimits(newSteer, c.applySteerLast, cs.SteeringTorque, c.params)
	c.SteerRateLimited = newSteer != applySteer

	if !enabled {
		applySteer = 0
	}

	// these cars fault and stay faulted if torque is held through the warning
	if c.variant.TorqueClass == vehicle.TorqueClassReduced && cs.SteerWarning {
		applySteer = 0
	}

	c.applySteerLast = applySteer
	if c.variant.IsPreGlobal() {
		return createPreGlobalSteeringControl(c.dbc, applySteer, frame, c.params.SteerStep)
	}
	return createSteeringControl(c.dbc, applySteer, frame, c.params.SteerStep)
}

// updateAutoStopStart presses the stop-start button once per process lifetime.
// After the car reports the feature off, the driver may turn it back on.
func (c *CarController) updateAutoStopStart(cs *models.CarState, canSends []models.CanMessage) []models.CanMessage {
	if c.autoStopStart == autoStopStartConfirmed {
		return canSends
	}

	if cs.AutoStopStartDisabled {
		log.Println("auto stop-start disabled")
		c.autoStopStart = autoStopStartConfirmed
		return canSends
	}

	if counterAdvanced(cs.DashlightsMsg, &c.dashlightsCnt) {
		canSends = append(canSends, createDashlights(c.dbc, cs.DashlightsMsg, true))
	}
	return canSends
}

func (c *CarController) updatePreGlobalCruise(cs *models.CarState, pcmCancel bool, canSends []models.CanMessage) []models.CanMessage {
	if !counterAdvanced(cs.EsAccelMsg, &c.esAccelCnt) {
		return canSends
	}

	cruiseButton := cs.CruiseButton
	if pcmCancel {
		cruiseButton = cruiseButtonMain
	} else if !cs.CruiseAvailable && cs.Ready {
		// turn main on once past start-up
		cruiseButton = cruiseButtonMain
	}

	// never hold a mocked press across two frames
	if cruiseButton == cruiseButtonMain && c.cruiseButtonPrev == cruiseButtonMain {
		cruiseButton = cruiseButtonNone
	}
	c.cruiseButtonPrev = cruiseButton

	return append(canSends, createEsThrottleControl(c.dbc, cruiseButton, cs.EsAccelMsg))
}

func (c *CarController) ApplySteerLast() int {
	return c.applySteerLast
}

func (c *CarController) SnGState() SnGState {
	return c.sng.state
}

func (c *CarController) SnGReference() (float64, bool) {
	return c.sng.referenceDistance, c.sng.hasReference
}

func (c *CarController) AutoStopStartConfirmed() bool {
	return c.autoStopStart == autoStopStartConfirmed
}

// counterAdvanced reports whether the source message carries a counter that
// differs from the last one forwarded, and records it if so.
func counterAdvanced(msg models.SourceMessage, last *int) bool {
	counter, ok := msg.Counter()
	if !ok || counter == *last {
		return false
	}
	*last = counter
	return true
}
