package config

import "sort"

// Presets are named scenarios applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"hover": func(c *Config) {
		c.Start = StartConfig{Body: "earth", Altitude: 150}
		c.Assist.Enabled = true
		c.Pilot = PilotConfig{Name: "schedule", Schedule: []ScheduleEntry{
			{At: 0, Powers: map[string]float64{"main": 32}},
		}}
	},
	"liftoff": func(c *Config) {
		c.Duration = 20
		c.Pilot = PilotConfig{Name: "schedule", Schedule: []ScheduleEntry{
			{At: 1, Powers: map[string]float64{"main": 100}},
			{At: 8, Powers: map[string]float64{"main": 0}},
		}}
	},
	"descent": func(c *Config) {
		c.Start = StartConfig{Body: "earth", Altitude: 400, VY: 5}
		c.Duration = 90
		c.Pilot = PilotConfig{Name: "schedule", Schedule: []ScheduleEntry{
			{At: 0, Powers: map[string]float64{"main": 0}},
			{At: 12, Powers: map[string]float64{"main": 60}},
		}}
	},
	"tumble": func(c *Config) {
		c.Start = StartConfig{Body: "earth", Altitude: 200, Tilt: 30, Spin: 0.8}
		c.Duration = 30
	},
	"moon": func(c *Config) {
		c.Home = "moon"
		c.Duration = 120
	},
	"lowfuel": func(c *Config) {
		c.Vehicle.FuelMax = 150
		c.Pilot = PilotConfig{Name: "schedule", Schedule: []ScheduleEntry{
			{At: 0, Powers: map[string]float64{"main": 100}},
		}}
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
