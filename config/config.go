package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration of one acquisition run. A YAML file
// can override any field of the defaults; a handful of command line
// flags can in turn override the file (applied in main).
type Config struct {
	Sensor      SensorConfig      `yaml:"Sensor"`
	Actuator    ActuatorConfig    `yaml:"Actuator"`
	Acquisition AcquisitionConfig `yaml:"Acquisition"`
	Logging     LoggingConfig     `yaml:"Logging"`
	Viewer      ViewerConfig      `yaml:"Viewer"`
}

// SensorConfig selects the SPI bus and the LDC1101 tuning values.
type SensorConfig struct {
	SPIDevice    string `yaml:"SPIDevice"`
	SPIBackend   string `yaml:"SPIBackend"` // "periph.io", "go-rpio" or "simulate"
	SPIFrequency int64  `yaml:"SPIFrequency"`
	RCount       int    `yaml:"RCount"`
	RPMin        int    `yaml:"RPMin"`
	RPMax        int    `yaml:"RPMax"`
	HighQ        bool   `yaml:"HighQ"`
	// ReadyMaxPolls bounds the data-ready busy-wait in status reads per
	// sample; 0 spins without bound.
	ReadyMaxPolls int `yaml:"ReadyMaxPolls"`
}

// ActuatorConfig describes the UDP command channel and the stepping
// behaviour of the run.
type ActuatorConfig struct {
	Host        string        `yaml:"Host"`
	Port        int           `yaml:"Port"`
	StartValue  int           `yaml:"StartValue"`
	Increment   int           `yaml:"Increment"`
	MaxCommand  int           `yaml:"MaxCommand"`
	SettleDelay time.Duration `yaml:"SettleDelay"`
}

type AcquisitionConfig struct {
	Logfile        string `yaml:"Logfile"`
	SamplesPerStep int    `yaml:"SamplesPerStep"`
	Steps          int    `yaml:"Steps"`
}

type LoggingConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

type ViewerConfig struct {
	Enabled    bool `yaml:"Enabled"`
	WindowSize int  `yaml:"WindowSize"`
}

// DefaultConfig returns the built-in run parameters. They match the
// bench setup this tool was written for.
func DefaultConfig() *Config {
	return &Config{
		Sensor: SensorConfig{
			SPIDevice:     "/dev/spidev0.0",
			SPIBackend:    "periph.io",
			SPIFrequency:  1000000,
			RCount:        0xFFFF,
			RPMin:         0x07,
			RPMax:         0x00,
			ReadyMaxPolls: 100000,
		},
		Actuator: ActuatorConfig{
			Host:        "127.0.0.1",
			Port:        2345,
			StartValue:  100,
			Increment:   1000,
			MaxCommand:  24000,
			SettleDelay: 100 * time.Millisecond,
		},
		Acquisition: AcquisitionConfig{
			Logfile:        "ldc1101_log.csv",
			SamplesPerStep: 500,
			Steps:          1,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
		Viewer: ViewerConfig{
			WindowSize: 500,
		},
	}
}

// ReadConfig loads the YAML file at path on top of the defaults and
// validates the result. An empty path returns the validated defaults.
func ReadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("can't open config file %s: %w", path, err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(conf); err != nil {
			return nil, fmt.Errorf("can't decode config file %s: %w", path, err)
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the whole configuration. It is called again from main
// after flag overrides have been applied.
func (c *Config) Validate() error {
	if c.Acquisition.SamplesPerStep < 1 || c.Acquisition.SamplesPerStep > 1000 {
		return fmt.Errorf("SamplesPerStep must be between 1 and 1000, got %d", c.Acquisition.SamplesPerStep)
	}
	if c.Acquisition.Steps <= 0 {
		return fmt.Errorf("Steps must be greater than 0, got %d", c.Acquisition.Steps)
	}
	if c.Acquisition.Logfile == "" {
		return fmt.Errorf("Logfile must not be empty")
	}
	if c.Sensor.RCount < 1 || c.Sensor.RCount > 0xFFFF {
		return fmt.Errorf("RCount must be between 1 and 65535, got %d", c.Sensor.RCount)
	}
	if c.Sensor.RPMin < 0 || c.Sensor.RPMin > 7 {
		return fmt.Errorf("RPMin must be between 0 and 7, got %d", c.Sensor.RPMin)
	}
	if c.Sensor.RPMax < 0 || c.Sensor.RPMax > 7 {
		return fmt.Errorf("RPMax must be between 0 and 7, got %d", c.Sensor.RPMax)
	}
	if c.Sensor.SPIFrequency <= 0 {
		return fmt.Errorf("SPIFrequency must be greater than 0, got %d", c.Sensor.SPIFrequency)
	}
	if c.Sensor.ReadyMaxPolls < 0 {
		return fmt.Errorf("ReadyMaxPolls must not be negative, got %d", c.Sensor.ReadyMaxPolls)
	}
	switch c.Sensor.SPIBackend {
	case "periph.io", "go-rpio", "simulate":
	default:
		return fmt.Errorf("SPIBackend must be \"periph.io\", \"go-rpio\" or \"simulate\", got %q", c.Sensor.SPIBackend)
	}
	if c.Actuator.Port < 1 || c.Actuator.Port > 65535 {
		return fmt.Errorf("actuator Port must be between 1 and 65535, got %d", c.Actuator.Port)
	}
	if c.Actuator.MaxCommand <= 0 || c.Actuator.MaxCommand > 32767 {
		return fmt.Errorf("MaxCommand must be between 1 and 32767, got %d", c.Actuator.MaxCommand)
	}
	if v := c.Actuator.StartValue; v < -32768 || v > 32767 {
		return fmt.Errorf("StartValue must fit a 16-bit command word, got %d", v)
	}
	if v := c.Actuator.Increment; v < -32768 || v > 32767 {
		return fmt.Errorf("Increment must fit a 16-bit command word, got %d", v)
	}
	if c.Viewer.WindowSize <= 0 {
		return fmt.Errorf("viewer WindowSize must be greater than 0, got %d", c.Viewer.WindowSize)
	}
	return nil
}
