package subaru

import (
	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
)

func newMessage(d *dbc.DBC, name string, bus int, values map[string]float64) models.CanMessage {
	return models.CanMessage{
		Name:    name,
		Address: d.Address(name),
		Bus:     bus,
		Values:  values,
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func createSteeringControl(d *dbc.DBC, applySteer, frame, steerStep int) models.CanMessage {
	return newMessage(d, MsgEsLkas, models.BusPT, map[string]float64{
		"Counter":      float64((frame / steerStep) % steerCounterGlobal),
		"LKAS_Output":  float64(applySteer),
		"LKAS_Request": boolValue(applySteer != 0),
		"SET_1":        1,
	})
}

func createPreGlobalSteeringControl(d *dbc.DBC, applySteer, frame, steerStep int) models.CanMessage {
	return newMessage(d, MsgEsLkas, models.BusPT, map[string]float64{
		"Counter":      float64((frame / steerStep) % steerCounterPre),
		"LKAS_Command": float64(applySteer),
		"LKAS_Active":  boolValue(applySteer != 0),
	})
}

// createDashlights forwards the car's dash frame with the stop-start button pressed.
func createDashlights(d *dbc.DBC, dashlights models.SourceMessage, pressStopStart bool) models.CanMessage {
	values := dashlights.Copy()
	values["STOP_START"] = boolValue(pressStopStart)
	return newMessage(d, MsgDashlights, models.BusCam, values)
}

func createThrottle(d *dbc.DBC, throttle models.SourceMessage, throttleCmd float64, override bool) models.CanMessage {
	values := throttle.Copy()
	if override {
		values["Throttle_Pedal"] = throttleCmd
	}
	return newMessage(d, MsgThrottle, models.BusCam, values)
}

func createEsDistance(d *dbc.DBC, esDistance models.SourceMessage, pcmCancel bool) models.CanMessage {
	values := esDistance.Copy()
	if pcmCancel {
		values["Cruise_Cancel"] = 1
	}
	return newMessage(d, MsgEsDistance, models.BusPT, values)
}

func createEsLkasState(d *dbc.DBC, esLkasState models.SourceMessage, visualAlert models.VisualAlert, lanes models.LaneFlags) models.CanMessage {
	values := esLkasState.Copy()
	if visualAlert == models.VisualAlertSteerRequired {
		values["Keep_Hands_On_Wheel"] = 1
	}

	// stock alerts such as FCW take priority over lane departure
	if visualAlert == models.VisualAlertLDW && values["LKAS_Alert"] == 0 {
		if lanes.LeftDepart {
			values["LKAS_Alert"] = lkasAlertLeftDepart
		} else if lanes.RightDepart {
			values["LKAS_Alert"] = lkasAlertRightDepart
		}
	}

	values["LKAS_Left_Line_Visible"] = boolValue(lanes.LeftLine)
	values["LKAS_Right_Line_Visible"] = boolValue(lanes.RightLine)
	return newMessage(d, MsgEsLkasState, models.BusPT, values)
}

func createEsThrottleControl(d *dbc.DBC, cruiseButton int, esAccel models.SourceMessage) models.CanMessage {
	values := esAccel.Copy()
	values["Cruise_Button"] = float64(cruiseButton)
	return newMessage(d, MsgEsCruiseThrottle, models.BusPT, values)
}
