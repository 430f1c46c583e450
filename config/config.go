package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the SAXPY offload program.
// The vector length is fixed at build time and is not part of it.
type Config struct {
	Device DeviceConfig `mapstructure:"device"`
	Log    LogConfig    `mapstructure:"log"`
}

// DeviceConfig selects the OCCA backend and the device within it
type DeviceConfig struct {
	Mode       string `mapstructure:"mode"`
	DeviceID   int    `mapstructure:"device_id"`
	PlatformID int    `mapstructure:"platform_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LoadOptions struct {
	ConfigFile string
	Defaults   Config
}

func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Mode:       "CUDA",
			DeviceID:   0,
			PlatformID: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load merges defaults, an optional config file and SAXPY_* environment
// variables, in increasing order of precedence.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)

	v.SetEnvPrefix("SAXPY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("saxpy")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	mode, err := NormalizeMode(cfg.Device.Mode)
	if err != nil {
		return Config{}, err
	}
	cfg.Device.Mode = mode

	if cfg.Device.DeviceID < 0 {
		return Config{}, fmt.Errorf("invalid device_id %d (must be >= 0)", cfg.Device.DeviceID)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("device.mode", c.Device.Mode)
	v.SetDefault("device.device_id", c.Device.DeviceID)
	v.SetDefault("device.platform_id", c.Device.PlatformID)
	v.SetDefault("log.level", c.Log.Level)
}
