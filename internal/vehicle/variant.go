package vehicle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownGeneration  = errors.New("unknown electronics generation")
	ErrUnknownTorqueClass = errors.New("unknown torque class")
	ErrInvalidParams      = errors.New("invalid control parameters")
)

type Generation int

const (
	GenerationUnknown Generation = iota
	GenerationPreGlobal
	GenerationGlobal
)

func ParseGeneration(value string) (Generation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "preglobal", "pre-global", "pre_global":
		return GenerationPreGlobal, nil
	case "global":
		return GenerationGlobal, nil
	}
	return GenerationUnknown, fmt.Errorf("%w: %q", ErrUnknownGeneration, value)
}

func (g Generation) String() string {
	switch g {
	case GenerationPreGlobal:
		return "preglobal"
	case GenerationGlobal:
		return "global"
	}
	return "unknown"
}

type TorqueClass int

const (
	TorqueClassUnknown TorqueClass = iota
	TorqueClassStandard
	TorqueClassReduced
)

func ParseTorqueClass(value string) (TorqueClass, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "standard":
		return TorqueClassStandard, nil
	case "reduced":
		return TorqueClassReduced, nil
	}
	return TorqueClassUnknown, fmt.Errorf("%w: %q", ErrUnknownTorqueClass, value)
}

func (t TorqueClass) String() string {
	switch t {
	case TorqueClassStandard:
		return "standard"
	case TorqueClassReduced:
		return "reduced"
	}
	return "unknown"
}

// Variant is the resolved vehicle descriptor handed over by fingerprinting. It is
// never mutated after startup.
type Variant struct {
	Generation   Generation
	TorqueClass  TorqueClass
	RadarPresent bool
}

// NewVariant resolves a descriptor from its textual form. Unknown values are an
// error; there is no fallback variant.
func NewVariant(generation, torqueClass string, radarPresent bool) (Variant, error) {
	gen, err := ParseGeneration(generation)
	if err != nil {
		return Variant{}, err
	}
	class, err := ParseTorqueClass(torqueClass)
	if err != nil {
		return Variant{}, err
	}
	return Variant{
		Generation:   gen,
		TorqueClass:  class,
		RadarPresent: radarPresent,
	}, nil
}

func (v Variant) Validate() error {
	if v.Generation != GenerationGlobal && v.Generation != GenerationPreGlobal {
		return fmt.Errorf("%w: %d", ErrUnknownGeneration, v.Generation)
	}
	if v.TorqueClass != TorqueClassStandard && v.TorqueClass != TorqueClassReduced {
		return fmt.Errorf("%w: %d", ErrUnknownTorqueClass, v.TorqueClass)
	}
	return nil
}

func (v Variant) IsPreGlobal() bool {
	return v.Generation == GenerationPreGlobal
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s radar:%t", v.Generation, v.TorqueClass, v.RadarPresent)
}

// steerMax is the closed set of commandable torque ceilings.
var steerMax = map[Generation]map[TorqueClass]int{
	GenerationGlobal: {
		TorqueClassStandard: 4095,
		TorqueClassReduced:  2047,
	},
	GenerationPreGlobal: {
		TorqueClassStandard: 2047,
		TorqueClassReduced:  1439,
	},
}

// Params are the numeric limits resolved once from a Variant.
type Params struct {
	SteerStep             int // cycles between steering frames
	SteerMax              int
	SteerDeltaUp          int
	SteerDeltaDown        int
	SteerDriverAllowance  int
	SteerDriverMultiplier int
	SteerDriverFactor     int

	// Stop and go
	SnGDistanceLimit        float64
	SnGDistanceDeadband     float64
	SnGSettleTime           time.Duration
	CloseDistanceSaturation float64
	ThrottleTapLevel        float64
	ThrottleTapLimit        int

	DisableAutoStopStart bool

	// Distance sensor
	RadarSlots         int
	RadarTriggerMsg    string
	NearDistanceRange  float64
	FarDistanceScale   float64
	LeadLostLimit      int
	RadarOffCycleSleep time.Duration
}

func NewParams(v Variant) (Params, error) {
	err := v.Validate()
	if err != nil {
		return Params{}, err
	}

	p := Params{
		SteerStep:             2,
		SteerMax:              steerMax[v.Generation][v.TorqueClass],
		SteerDeltaUp:          50,
		SteerDeltaDown:        70,
		SteerDriverAllowance:  60,
		SteerDriverMultiplier: 10,
		SteerDriverFactor:     1,

		SnGDistanceLimit:        120,
		SnGDistanceDeadband:     10,
		SnGSettleTime:           200 * time.Millisecond,
		CloseDistanceSaturation: 255,
		ThrottleTapLevel:        5,
		ThrottleTapLimit:        5,

		DisableAutoStopStart: true,

		RadarSlots:         2,
		RadarTriggerMsg:    "ES_Distance",
		NearDistanceRange:  6,
		FarDistanceScale:   5,
		LeadLostLimit:      10,
		RadarOffCycleSleep: 50 * time.Millisecond,
	}

	if v.IsPreGlobal() {
		p.SteerDriverAllowance = 75
		p.RadarSlots = 1
	}

	return p, p.Validate()
}

func (p Params) Validate() error {
	ints := map[string]int{
		"steer step":              p.SteerStep,
		"steer max":               p.SteerMax,
		"steer delta up":          p.SteerDeltaUp,
		"steer delta down":        p.SteerDeltaDown,
		"steer driver allowance":  p.SteerDriverAllowance,
		"steer driver multiplier": p.SteerDriverMultiplier,
		"throttle tap limit":      p.ThrottleTapLimit,
		"radar slots":             p.RadarSlots,
		"lead lost limit":         p.LeadLostLimit,
	}
	for name, value := range ints {
		if value < 0 {
			return fmt.Errorf("%w: %s is negative (%d)", ErrInvalidParams, name, value)
		}
	}
	if p.SteerStep == 0 {
		return fmt.Errorf("%w: steer step must be positive", ErrInvalidParams)
	}
	if p.SnGDistanceLimit < 0 || p.SnGDistanceDeadband < 0 || p.SnGSettleTime < 0 || p.ThrottleTapLevel < 0 {
		return fmt.Errorf("%w: stop and go limits must be non-negative", ErrInvalidParams)
	}
	return nil
}
