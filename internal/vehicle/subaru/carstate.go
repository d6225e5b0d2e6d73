package subaru

import (
	"fmt"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
)

func ptChecks(variant vehicle.Variant) []dbc.MessageCheck {
	checks := []dbc.MessageCheck{
		{Name: MsgSteeringTorque, Frequency: 50},
		{Name: MsgThrottle, Frequency: 100},
		{Name: MsgCruiseControl, Frequency: 20},
	}
	if !variant.IsPreGlobal() {
		checks = append(checks, dbc.MessageCheck{Name: MsgDashlights, Frequency: 10})
	}
	return checks
}

func camChecks(variant vehicle.Variant) []dbc.MessageCheck {
	if variant.IsPreGlobal() {
		return []dbc.MessageCheck{
			{Name: MsgEsCruiseThrottle, Frequency: 20},
			{Name: MsgEsDashStatus, Frequency: 20},
			{Name: MsgEsDistance, Frequency: 20},
		}
	}
	return []dbc.MessageCheck{
		{Name: MsgEsDistance, Frequency: 20},
		{Name: MsgEsDashStatus, Frequency: 10},
		{Name: MsgEsLkasState, Frequency: 10},
	}
}

func NewCarStateParser(variant vehicle.Variant, d *dbc.DBC) (*CarStateParser, error) {
	ptParser, err := dbc.NewParser(d, ptChecks(variant))
	if err != nil {
		return nil, fmt.Errorf("failed building powertrain parser: %w", err)
	}
	camParser, err := dbc.NewParser(d, camChecks(variant))
	if err != nil {
		return nil, fmt.Errorf("failed building camera parser: %w", err)
	}
	return &CarStateParser{
		variant:   variant,
		ptParser:  ptParser,
		camParser: camParser,
	}, nil
}

// Update folds this cycle's frames into the parsers and extracts the vehicle status.
func (c *CarStateParser) Update(monoTime time.Duration, ptFrames, camFrames []can.Frame) models.CarState {
	c.ptParser.Update(monoTime, ptFrames)
	c.camParser.Update(monoTime, camFrames)

	steering := c.ptParser.Values(MsgSteeringTorque)
	cruise := c.ptParser.Values(MsgCruiseControl)
	dash := c.camParser.Values(MsgEsDashStatus)
	distance := c.camParser.Values(MsgEsDistance)

	cs := models.CarState{
		MonoTime:        monoTime,
		SteeringTorque:  steering["Steer_Torque_Sensor"],
		SteerWarning:    steering["Steer_Warning"] == 1,
		CruiseState:     models.CruiseState(dash["Cruise_State"]),
		CruiseAvailable: cruise["Cruise_On"] == 1,
		Ready:           dash["Not_Ready_Startup"] == 0,
		CloseDistance:   distance["Close_Distance"],
		CarFollow:       dash["Car_Follow"] == 1,
	}

	cs.ThrottleMsg = c.seenValues(c.ptParser, MsgThrottle)
	if c.variant.IsPreGlobal() {
		cs.EsAccelMsg = c.seenValues(c.camParser, MsgEsCruiseThrottle)
		cs.CruiseButton = int(cs.EsAccelMsg["Cruise_Button"])
		return cs
	}

	cs.DashlightsMsg = c.seenValues(c.ptParser, MsgDashlights)
	cs.AutoStopStartDisabled = cs.DashlightsMsg["STOP_START_STATE"] == stopStartDisabled
	cs.EsDistanceMsg = c.seenValues(c.camParser, MsgEsDistance)
	cs.EsLkasStateMsg = c.seenValues(c.camParser, MsgEsLkasState)
	return cs
}

func (c *CarStateParser) CanValid() bool {
	return c.ptParser.CanValid() && c.camParser.CanValid()
}

// seenValues returns nil until a message has arrived, so nothing is forwarded
// from a message the car has not sent yet.
func (c *CarStateParser) seenValues(p *dbc.Parser, name string) models.SourceMessage {
	if !p.Seen(name) {
		return nil
	}
	return p.Values(name)
}
