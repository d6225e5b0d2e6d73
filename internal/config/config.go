package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

func GetConfig() (Config, error) {
	variantCfg, err := GetVariantConfig()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		VariantCfg:   variantCfg,
		BusCfg:       GetBusConfig(),
		CarCfg:       GetCarConfig(),
		LogCfg:       GetLogConfig(),
		HealthPeriod: GetDurationEnv("HEALTH_PERIOD", DefaultHealthPeriod),
	}

	log.Printf("app config: \n%+v\n", cfg)
	return cfg, nil
}

// GetVariantConfig reads the vehicle descriptor from the variant file when one
// is configured, otherwise from the environment.
func GetVariantConfig() (VariantConfig, error) {
	path := GetPathEnv("VARIANT_FILE", DefaultVariantFile)
	if path != "" {
		return LoadVariantFile(path)
	}
	return VariantConfig{
		Generation:   GetStringEnv("GENERATION", DefaultGeneration),
		TorqueClass:  GetStringEnv("TORQUE_CLASS", DefaultTorqueClass),
		RadarPresent: GetBoolEnv("RADAR_PRESENT", DefaultRadarPresent),
	}, nil
}

func LoadVariantFile(path string) (VariantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VariantConfig{}, fmt.Errorf("failed reading variant file: %w", err)
	}

	cfg := VariantConfig{RadarPresent: DefaultRadarPresent}
	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return VariantConfig{}, fmt.Errorf("failed parsing variant file %s: %w", path, err)
	}
	if cfg.Generation == "" || cfg.TorqueClass == "" {
		return VariantConfig{}, fmt.Errorf("variant file %s must set generation and torque_class", path)
	}
	return cfg, nil
}

func GetBusConfig() BusConfig {
	return BusConfig{
		BusDriver: GetStringEnv("BUS_DRIVER", DefaultBusDriver),
		PTBus:     GetStringEnv("PT_BUS", DefaultPTBus),
		AltBus:    GetStringEnv("ALT_BUS", DefaultAltBus),
		CamBus:    GetStringEnv("CAM_BUS", DefaultCamBus),
		RxBuffer:  GetIntEnv("RX_BUFFER", DefaultRxBuffer),
	}
}

func GetCarConfig() CarConfig {
	return CarConfig{
		CyclePeriod:          GetDurationEnv("CYCLE_PERIOD", DefaultCyclePeriod),
		RequestTimeout:       GetDurationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		DisableAutoStopStart: GetBoolEnv("DISABLE_AUTO_SS", DefaultDisableAutoStopStart),
		NoRadarSleep:         GetBoolEnv("NO_RADAR_SLEEP", DefaultNoRadarSleep),
	}
}

func GetLogConfig() LogConfig {
	return LogConfig{
		File:       GetPathEnv("LOG_FILE", DefaultLogFile),
		MaxSizeMB:  GetIntEnv("LOG_MAX_SIZE_MB", DefaultLogMaxSizeMB),
		MaxBackups: GetIntEnv("LOG_MAX_BACKUPS", DefaultLogMaxBackups),
		MaxAgeDays: GetIntEnv("LOG_MAX_AGE_DAYS", DefaultLogMaxAgeDays),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.ToLower(strings.Trim(envValue, "\r"))
	}
}

// GetPathEnv is GetStringEnv without lower casing.
func GetPathEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}
	return strings.Trim(envValue, "\r")
}

func GetDurationEnv(env string, defaultValue time.Duration) time.Duration {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}
	value, err := time.ParseDuration(strings.Trim(envValue, "\r"))
	if err != nil || value <= 0 {
		log.Printf("warning:%s not parsed - error: %v\n", env, err)
		return defaultValue
	}
	return value
}
