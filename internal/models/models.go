package models

import (
	"math"
	"time"
)

// Bus indexes as wired on the harness: 0 is the powertrain side, 2 the camera side.
const (
	BusPT  = 0
	BusAlt = 1
	BusCam = 2
)

type CruiseState int

const (
	CruiseStateOff    CruiseState = 0
	CruiseStateActive CruiseState = 1
	CruiseStateBrake  CruiseState = 2
	CruiseStateHold   CruiseState = 3
)

type VisualAlert int

const (
	VisualAlertNone VisualAlert = iota
	VisualAlertFCW
	VisualAlertSteerRequired
	VisualAlertBrakePressed
	VisualAlertWrongGear
	VisualAlertSeatbeltUnbuckled
	VisualAlertSpeedTooHigh
	VisualAlertLDW
)

type RadarError string

const (
	RadarErrorSensorLink RadarError = "sensorLinkError"
)

// SourceMessage holds the last decoded signal values of one bus message.
type SourceMessage map[string]float64

// Counter returns the rolling counter of the message. Missing or malformed
// counters report false.
func (m SourceMessage) Counter() (int, bool) {
	if m == nil {
		return 0, false
	}
	value, ok := m["Counter"]
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return int(value), true
}

func (m SourceMessage) Copy() SourceMessage {
	values := make(SourceMessage, len(m))
	for k, v := range m {
		values[k] = v
	}
	return values
}

// CanMessage is one outbound frame before packing.
type CanMessage struct {
	Name    string
	Address uint32
	Bus     int
	Values  map[string]float64
}

type Actuators struct {
	Steer float64 // normalized [-1,1]
}

type LaneFlags struct {
	LeftLine    bool
	RightLine   bool
	LeftDepart  bool
	RightDepart bool
}

// CarState is the vehicle status snapshot consumed by the controller once per cycle.
type CarState struct {
	MonoTime time.Duration

	SteeringTorque float64
	SteerWarning   bool

	CruiseState     CruiseState
	CruiseAvailable bool
	CruiseButton    int
	Ready           bool

	AutoStopStartDisabled bool

	CloseDistance float64
	CarFollow     bool

	EsDistanceMsg  SourceMessage
	EsLkasStateMsg SourceMessage
	EsAccelMsg     SourceMessage
	DashlightsMsg  SourceMessage
	ThrottleMsg    SourceMessage
}

// ControlRequest is what the planning side asks of the controller for one cycle.
type ControlRequest struct {
	Enabled      bool
	Actuators    Actuators
	CruiseCancel bool
	VisualAlert  VisualAlert
	Lanes        LaneFlags
	TimeStamp    time.Time
}

type RadarPoint struct {
	TrackID  uint64
	DRel     float64 // m from front of car
	YRel     float64 // m, left is negative
	VRel     float64
	YvRel    float64
	ARel     float64
	Measured bool
}

type RadarData struct {
	Errors []RadarError
	Points []RadarPoint
}

func (r *RadarData) HasError(e RadarError) bool {
	for i := range r.Errors {
		if r.Errors[i] == e {
			return true
		}
	}
	return false
}
