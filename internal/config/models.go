package config

import "time"

const (
	AppEnvBase = "SUBARU_"

	DefaultVariantFile  = ""
	DefaultGeneration   = "global"
	DefaultTorqueClass  = "standard"
	DefaultRadarPresent = true

	// Default Bus Options
	DefaultBusDriver = "socketcan"
	DefaultPTBus     = "can0"
	DefaultAltBus    = "can1"
	DefaultCamBus    = "can2"
	DefaultRxBuffer  = 1024

	// Default Car Options
	DefaultCyclePeriod          = 10 * time.Millisecond
	DefaultRequestTimeout       = 200 * time.Millisecond
	DefaultDisableAutoStopStart = true
	DefaultNoRadarSleep         = false

	DefaultHealthPeriod = 30 * time.Second

	// Default Log Options
	DefaultLogFile       = ""
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 7
)

type Config struct {
	VariantCfg VariantConfig
	BusCfg     BusConfig
	CarCfg     CarConfig
	LogCfg     LogConfig

	HealthPeriod time.Duration
}

type VariantConfig struct {
	Generation   string `yaml:"generation"`
	TorqueClass  string `yaml:"torque_class"`
	RadarPresent bool   `yaml:"radar_present"`
}

type BusConfig struct {
	BusDriver string
	PTBus     string
	AltBus    string
	CamBus    string
	RxBuffer  int
}

type CarConfig struct {
	CyclePeriod          time.Duration
	RequestTimeout       time.Duration
	DisableAutoStopStart bool
	NoRadarSleep         bool
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}
