package config

import "github.com/san-kum/gaslab/internal/gas"

var Presets = map[string]*Config{
	"equilibrium": {
		Dt: 0.2, Duration: 400.0, HeavyCount: 100, Temperature: 300,
		Collisions: true, Hold: "nothing",
		Container: ContainerConfig{Width: gas.DefaultWidth},
	},
	"compression": {
		Dt: 0.2, Duration: 300.0, HeavyCount: 150, Temperature: 300,
		Collisions: true, Hold: "temperature",
		Container: ContainerConfig{Width: gas.MinWidth},
	},
	"heat-soak": {
		Dt: 0.2, Duration: 600.0, HeavyCount: 80, LightCount: 80, Temperature: 150,
		Collisions: true, Hold: "pressure-t",
		Container: ContainerConfig{Width: gas.DefaultWidth},
	},
	"diffusion": {
		Dt: 0.2, Duration: 500.0, HeavyCount: 100, LightCount: 100, Temperature: 300,
		Collisions: true, Hold: "nothing",
		Container: ContainerConfig{Width: gas.MaxWidth, Divider: true},
	},
	"escape": {
		Dt: 0.2, Duration: 800.0, HeavyCount: 50, LightCount: 150, Temperature: 400,
		Collisions: true, Hold: "nothing",
		Container: ContainerConfig{Width: gas.DefaultWidth, LidHalfWidth: 40},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
