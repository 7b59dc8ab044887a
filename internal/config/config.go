package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaslab/internal/gas"
)

type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`

	Container ContainerConfig `yaml:"container"`

	HeavyCount  int     `yaml:"heavy_count"`
	LightCount  int     `yaml:"light_count"`
	Temperature float64 `yaml:"temperature"`

	Collisions bool   `yaml:"collisions"`
	Hold       string `yaml:"hold"`
}

type ContainerConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`

	Divider      bool    `yaml:"divider"`
	DividerX     float64 `yaml:"divider_x"`
	LidHalfWidth float64 `yaml:"lid_half_width"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       0.2,
		Duration: 200.0,
		Container: ContainerConfig{
			Width:  gas.DefaultWidth,
			Height: gas.DefaultHeight,
			Depth:  gas.DefaultDepth,
		},
		HeavyCount:  100,
		Temperature: gas.DefaultTemperature,
		Collisions:  true,
		Hold:        "nothing",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSimConfig translates the file representation into the simulation's
// own config type.
func (c *Config) ToSimConfig() (gas.Config, error) {
	hold, err := ParseHoldMode(c.Hold)
	if err != nil {
		return gas.Config{}, err
	}
	return gas.Config{
		Dt:                 c.Dt,
		Duration:           c.Duration,
		Seed:               c.Seed,
		Width:              c.Container.Width,
		Height:             c.Container.Height,
		Depth:              c.Container.Depth,
		HeavyCount:         c.HeavyCount,
		LightCount:         c.LightCount,
		InitialTemperature: c.Temperature,
		CollisionsEnabled:  c.Collisions,
		HoldMode:           hold,
		HasDivider:         c.Container.Divider,
		DividerX:           c.Container.DividerX,
		LidHalfWidth:       c.Container.LidHalfWidth,
	}, nil
}

func ParseHoldMode(s string) (gas.HoldMode, error) {
	switch s {
	case "", "nothing", "none":
		return gas.HoldNothing, nil
	case "volume":
		return gas.HoldVolume, nil
	case "temperature":
		return gas.HoldTemperature, nil
	case "pressure-v":
		return gas.HoldPressureV, nil
	case "pressure-t":
		return gas.HoldPressureT, nil
	default:
		return gas.HoldNothing, fmt.Errorf("unknown hold mode %q", s)
	}
}
