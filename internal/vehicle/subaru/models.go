package subaru

import (
	"sync"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/dbc"
	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
)

const (
	MsgThrottle          = "Throttle"
	MsgSteeringTorque    = "Steering_Torque"
	MsgEsLkas            = "ES_LKAS"
	MsgEsDistance        = "ES_Distance"
	MsgEsDashStatus      = "ES_DashStatus"
	MsgEsLkasState       = "ES_LKAS_State"
	MsgEsCruiseThrottle  = "ES_CruiseThrottle"
	MsgCruiseControl     = "CruiseControl"
	MsgDashlights        = "Dashlights"
	noCounter            = -1
	cruiseButtonMain     = 1
	cruiseButtonNone     = 0
	lkasAlertLeftDepart  = 12
	lkasAlertRightDepart = 11
	stopStartDisabled    = 3
	steerCounterGlobal   = 16
	steerCounterPre      = 8
	radarFrameBuffer     = 16
)

type SnGState int

const (
	SnGMoving SnGState = iota
	SnGHoldWaitingSettle
	SnGHoldReferenceRecorded
	SnGTapping
	SnGHoldTapsExhausted
)

func (s SnGState) String() string {
	switch s {
	case SnGMoving:
		return "moving"
	case SnGHoldWaitingSettle:
		return "hold_waiting_settle"
	case SnGHoldReferenceRecorded:
		return "hold_reference_recorded"
	case SnGTapping:
		return "tapping"
	case SnGHoldTapsExhausted:
		return "hold_taps_exhausted"
	}
	return "unknown"
}

type autoStopStartState int

const (
	autoStopStartPending autoStopStartState = iota
	autoStopStartConfirmed
)

type stopAndGo struct {
	params vehicle.Params

	state             SnGState
	holdEnteredAt     time.Duration
	hasReference      bool
	referenceDistance float64
	tapCount          int
}

type CarController struct {
	variant vehicle.Variant
	params  vehicle.Params
	dbc     *dbc.DBC

	applySteerLast   int
	SteerRateLimited bool

	esDistanceCnt    int
	esAccelCnt       int
	esLkasCnt        int
	throttleCnt      int
	dashlightsCnt    int
	cruiseButtonPrev int

	autoStopStart autoStopStartState
	sng           stopAndGo
}

type CarStateParser struct {
	variant   vehicle.Variant
	ptParser  *dbc.Parser
	camParser *dbc.Parser
}

type RadarInterface struct {
	params   vehicle.Params
	radarOff bool
	noSleep  bool
	sleep    func(time.Duration)

	parser          *dbc.Parser
	triggerMsg      uint32
	updatedMessages map[uint32]struct{}

	nextTrackID   uint64
	points        map[int]*models.RadarPoint
	leadLostCount int
}

type CycleStats struct {
	Cycles       uint64
	Overruns     uint64
	LastDuration time.Duration
	MaxDuration  time.Duration
	RadarUpdates uint64
	RadarDropped uint64
	PackFailures uint64
}

type Car struct {
	cfg     config.CarConfig
	variant vehicle.Variant
	params  vehicle.Params

	lock  sync.RWMutex
	stats CycleStats

	commandDriver vehicle.CommandDriverIFace
	input         *vehicle.ControlInput
	carState      *CarStateParser
	controller    *CarController
	radar         *RadarInterface
	packer        *dbc.Packer

	radarFrames  chan []can.Frame
	radarChannel chan *models.RadarData
	start        time.Time
}
