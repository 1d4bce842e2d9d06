// Package config loads and saves the stalkbot configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/gwillem/stalkbot/pkg/accessory"
	"github.com/gwillem/stalkbot/pkg/motion"
)

const (
	DefaultConfigFile = "stalkbot.toml"
	EnvConfig         = "STALKBOT_CONFIG"
	envPrefix         = "STALKBOT"
)

// Config holds the stalkbot configuration.
type Config struct {
	Arm        ArmConfig        `toml:"arm" mapstructure:"arm"`
	Perception PerceptionConfig `toml:"perception" mapstructure:"perception"`
	Accessory  AccessoryConfig  `toml:"accessory" mapstructure:"accessory"`
	Offsets    motion.Offsets   `toml:"offsets" mapstructure:"offsets"`
	Demo       DemoConfig       `toml:"demo" mapstructure:"demo"`
}

// ArmConfig locates the arm bridge.
type ArmConfig struct {
	BridgeURL            string  `toml:"bridge_url" mapstructure:"bridge_url"`
	MotionTimeoutSeconds float64 `toml:"motion_timeout_seconds" mapstructure:"motion_timeout_seconds"`
}

// PerceptionConfig locates the stalk detection service.
type PerceptionConfig struct {
	URL            string  `toml:"url" mapstructure:"url"`
	NumFrames      int     `toml:"num_frames" mapstructure:"num_frames"`
	TimeoutSeconds float64 `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// AccessoryConfig holds the box dispenser serial settings.
type AccessoryConfig struct {
	Port     string `toml:"port" mapstructure:"port"`
	BaudRate int    `toml:"baud_rate" mapstructure:"baud_rate"`
}

// DemoConfig tunes the blind demonstration scripts.
type DemoConfig struct {
	DwellSeconds float64 `toml:"dwell_seconds" mapstructure:"dwell_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Arm: ArmConfig{
			BridgeURL:            "http://127.0.0.1:8420",
			MotionTimeoutSeconds: 60,
		},
		Perception: PerceptionConfig{
			URL:            "http://127.0.0.1:8420",
			NumFrames:      1,
			TimeoutSeconds: 30,
		},
		Accessory: AccessoryConfig{
			Port:     accessory.DefaultPort,
			BaudRate: accessory.DefaultBaudRate,
		},
		Offsets: motion.DefaultOffsets(),
		Demo: DemoConfig{
			DwellSeconds: motion.DefaultDwell.Seconds(),
		},
	}
}

// MotionTimeout returns the per-command bound for arm motions.
func (c *Config) MotionTimeout() time.Duration {
	return seconds(c.Arm.MotionTimeoutSeconds)
}

// PerceptionTimeout returns the bound on one detection request.
func (c *Config) PerceptionTimeout() time.Duration {
	return seconds(c.Perception.TimeoutSeconds)
}

// Dwell returns the pause held by the demonstration scripts.
func (c *Config) Dwell() time.Duration {
	return seconds(c.Demo.DwellSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Path returns the config file path, honoring STALKBOT_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return DefaultConfigFile
}

// Load loads configuration from Path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads configuration from path. A missing file yields the
// defaults. STALKBOT_<SECTION>_<KEY> environment variables override both.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("arm.bridge_url", d.Arm.BridgeURL)
	v.SetDefault("arm.motion_timeout_seconds", d.Arm.MotionTimeoutSeconds)

	v.SetDefault("perception.url", d.Perception.URL)
	v.SetDefault("perception.num_frames", d.Perception.NumFrames)
	v.SetDefault("perception.timeout_seconds", d.Perception.TimeoutSeconds)

	v.SetDefault("accessory.port", d.Accessory.Port)
	v.SetDefault("accessory.baud_rate", d.Accessory.BaudRate)

	o := d.Offsets
	v.SetDefault("offsets.gripper_half_width", o.GripperHalfWidth)
	v.SetDefault("offsets.trim_x", o.TrimX)
	v.SetDefault("offsets.trim_y", o.TrimY)
	v.SetDefault("offsets.insert_depth", o.InsertDepth)
	v.SetDefault("offsets.retract_depth", o.RetractDepth)
	v.SetDefault("offsets.overshoot_y", o.OvershootY)
	v.SetDefault("offsets.funnel_y", o.FunnelY)
	v.SetDefault("offsets.joint_six_quarter_turn", o.JointSixQuarterTurn)
	v.SetDefault("offsets.reverse_clearance_y", o.ReverseClearanceY)
	v.SetDefault("offsets.camera_clearance_y", o.CameraClearanceY)

	v.SetDefault("demo.dwell_seconds", d.Demo.DwellSeconds)
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Arm.BridgeURL) == "" {
		return fmt.Errorf("arm config missing bridge_url")
	}
	if c.Arm.MotionTimeoutSeconds <= 0 {
		return fmt.Errorf("arm motion_timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.Perception.URL) == "" {
		return fmt.Errorf("perception config missing url")
	}
	if c.Perception.TimeoutSeconds <= 0 {
		return fmt.Errorf("perception timeout_seconds must be positive")
	}
	if c.Perception.NumFrames < 1 {
		return fmt.Errorf("perception num_frames must be at least 1")
	}
	if c.Demo.DwellSeconds < 0 {
		return fmt.Errorf("demo dwell_seconds must not be negative")
	}
	if err := c.Offsets.Validate(); err != nil {
		return fmt.Errorf("offsets invalid: %w", err)
	}
	return nil
}

// Save saves configuration to Path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Exists returns true if the config file exists.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
