package vehicle

import (
	"context"
	"math"

	"github.com/brutella/can"
)

// BusFrame is a packed frame addressed to one of the harness buses.
type BusFrame struct {
	Bus   int
	Frame can.Frame
}

type CommandDriverIFace interface {
	Init() error
	Start(context.Context) error
	Stop() error
	Set(BusFrame) error
	SetMany([]BusFrame) error
	RxChan(bus int) <-chan can.Frame
}

type Vehicle interface {
	Init() error
	Start(context.Context) error
}

func Clip(value, min, max float64) float64 {
	if value > max {
		return max
	} else if value < min {
		return min
	}
	return value
}

// ApplySteerTorqueLimits bounds a requested torque by the driver override window
// and then by the per-cycle ramp relative to the last commanded value.
func ApplySteerTorqueLimits(applyTorque, applyTorqueLast int, driverTorque float64, p Params) int {
	steerMax := float64(p.SteerMax)
	allowance := float64(p.SteerDriverAllowance)
	multiplier := float64(p.SteerDriverMultiplier)
	factor := float64(p.SteerDriverFactor)

	driverMaxTorque := steerMax + (allowance+driverTorque*factor)*multiplier
	driverMinTorque := -steerMax + (-allowance+driverTorque*factor)*multiplier
	maxSteerAllowed := math.Max(math.Min(steerMax, driverMaxTorque), 0)
	minSteerAllowed := math.Min(math.Max(-steerMax, driverMinTorque), 0)
	torque := Clip(float64(applyTorque), minSteerAllowed, maxSteerAllowed)

	last := float64(applyTorqueLast)
	up := float64(p.SteerDeltaUp)
	down := float64(p.SteerDeltaDown)
	if applyTorqueLast > 0 {
		torque = Clip(torque, math.Max(last-down, -up), last+up)
	} else {
		torque = Clip(torque, last-up, math.Min(last+down, up))
	}

	return int(math.Round(torque))
}
