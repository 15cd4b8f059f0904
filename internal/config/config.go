package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/orbit"
)

const (
	DefaultDt        = 1.0 / 60
	DefaultDuration  = 60.0
	DefaultTimeScale = 1.0
	DefaultG         = 2.5e-5

	DefaultMass      = 100.0
	DefaultWidth     = 30.0
	DefaultHeight    = 60.0
	DefaultFuelMax   = 5000.0
	DefaultHealthMax = 100.0

	DefaultKp = 40.0
	DefaultKi = 0.0
	DefaultKd = 4.0
)

type Config struct {
	Integrator string        `yaml:"integrator"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	TimeScale  float64       `yaml:"time_scale"`
	Gravity    GravityConfig `yaml:"gravity"`
	Engine     EngineConfig  `yaml:"engine"`
	Vehicle    VehicleConfig `yaml:"vehicle"`
	Bodies     []BodyConfig  `yaml:"bodies"`
	Home       string        `yaml:"home"`
	Start      StartConfig   `yaml:"start"`
	Thresholds Thresholds    `yaml:"thresholds"`
	Assist     AssistConfig  `yaml:"assist"`
	Pilot      PilotConfig   `yaml:"pilot"`
}

type GravityConfig struct {
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening"`
}

type EngineConfig struct {
	ContactSkin float64 `yaml:"contact_skin"`
	Restitution float64 `yaml:"restitution"`
}

// VehicleConfig describes the rocket. Zero Inertia, Radius and
// CollisionRadius are derived from mass and size.
type VehicleConfig struct {
	Mass            float64          `yaml:"mass"`
	Inertia         float64          `yaml:"inertia"`
	Width           float64          `yaml:"width"`
	Height          float64          `yaml:"height"`
	Radius          float64          `yaml:"radius"`
	CollisionRadius float64          `yaml:"collision_radius"`
	FuelMax         float64          `yaml:"fuel_max"`
	HealthMax       float64          `yaml:"health_max"`
	Thrusters       []ThrusterConfig `yaml:"thrusters"`
}

type ThrusterConfig struct {
	ID       string  `yaml:"id"`
	Kind     string  `yaml:"kind"`
	MaxPower float64 `yaml:"max_power"`
	MaxForce float64 `yaml:"max_force"`
	MountX   float64 `yaml:"mount_x"`
	MountY   float64 `yaml:"mount_y"`
	FuelRate float64 `yaml:"fuel_rate"`
}

type BodyConfig struct {
	Name   string       `yaml:"name"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	Mass   float64      `yaml:"mass"`
	Radius float64      `yaml:"radius"`
	Orbit  *OrbitConfig `yaml:"orbit,omitempty"`
}

// OrbitConfig puts a body on a circular orbit around Parent. Period is in
// seconds; negative values orbit clockwise.
type OrbitConfig struct {
	Parent string  `yaml:"parent"`
	Period float64 `yaml:"period"`
}

// StartConfig optionally places the vehicle away from its landed home
// position. An empty Body keeps the default start.
type StartConfig struct {
	Body     string  `yaml:"body"`
	Altitude float64 `yaml:"altitude"`
	Bearing  float64 `yaml:"bearing_deg"`
	Tilt     float64 `yaml:"tilt_deg"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Spin     float64 `yaml:"spin"`
}

// Thresholds are the landing, crash and damage cutoffs. Angles are in
// degrees.
type Thresholds struct {
	Proximity          float64 `yaml:"proximity"`
	LandAngle          float64 `yaml:"land_angle_deg"`
	Speed              float64 `yaml:"speed"`
	Spin               float64 `yaml:"spin"`
	LyingAngle         float64 `yaml:"lying_angle_deg"`
	TumbleAngle        float64 `yaml:"tumble_angle_deg"`
	UpsideDownAngle    float64 `yaml:"upside_down_angle_deg"`
	FastSpeed          float64 `yaml:"fast_speed"`
	FastSpin           float64 `yaml:"fast_spin"`
	CollisionThreshold float64 `yaml:"collision_threshold"`
	DamageFactor       float64 `yaml:"damage_factor"`
	LiftoffFraction    float64 `yaml:"liftoff_fraction"`
	LiftoffSpeed       float64 `yaml:"liftoff_speed"`
	CheckInterval      float64 `yaml:"check_interval"`
	CheckMargin        float64 `yaml:"check_margin"`
	MaxDt              float64 `yaml:"max_dt"`
}

type AssistConfig struct {
	Enabled bool    `yaml:"enabled"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
}

// PilotConfig selects the automatic pilot used by batch runs.
type PilotConfig struct {
	Name     string          `yaml:"name"`
	Schedule []ScheduleEntry `yaml:"schedule,omitempty"`
}

// ScheduleEntry sets thruster powers from time At onwards.
type ScheduleEntry struct {
	At     float64            `yaml:"at"`
	Powers map[string]float64 `yaml:"powers"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Proximity:          30,
		LandAngle:          30,
		Speed:              1.0,
		Spin:               0.1,
		LyingAngle:         60,
		TumbleAngle:        45,
		UpsideDownAngle:    90,
		FastSpeed:          1.0,
		FastSpin:           0.2,
		CollisionThreshold: 2.5,
		DamageFactor:       10,
		LiftoffFraction:    0.5,
		LiftoffSpeed:       2.0,
		CheckInterval:      0.1,
		CheckMargin:        DefaultHeight * 1.5,
		MaxDt:              0.1,
	}
}

func DefaultThrusters() []ThrusterConfig {
	return []ThrusterConfig{
		{ID: "main", Kind: "main", MaxPower: 100, MaxForce: 2000, MountY: DefaultHeight / 2, FuelRate: 12},
		{ID: "rear", Kind: "rear", MaxPower: 50, MaxForce: 450, MountY: -DefaultHeight / 2, FuelRate: 12},
		{ID: "left", Kind: "lateral", MaxPower: 20, MaxForce: 150, MountX: -DefaultWidth / 2, FuelRate: 3},
		{ID: "right", Kind: "lateral", MaxPower: 20, MaxForce: 150, MountX: DefaultWidth / 2, FuelRate: 3},
	}
}

func DefaultBodies() []BodyConfig {
	return []BodyConfig{
		{Name: "earth", Mass: 2e11, Radius: 720},
		{Name: "moon", X: 3600, Mass: 5e9, Radius: 180, Orbit: &OrbitConfig{Parent: "earth", Period: 600}},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: integrators.Default,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		TimeScale:  DefaultTimeScale,
		Gravity:    GravityConfig{G: DefaultG},
		Engine:     EngineConfig{ContactSkin: 0.5, Restitution: 0.4},
		Vehicle: VehicleConfig{
			Mass:      DefaultMass,
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			FuelMax:   DefaultFuelMax,
			HealthMax: DefaultHealthMax,
			Thrusters: DefaultThrusters(),
		},
		Bodies:     DefaultBodies(),
		Home:       "earth",
		Thresholds: DefaultThresholds(),
		Assist:     AssistConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd},
		Pilot:      PilotConfig{Name: "none"},
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
	if err := cfg.Validate(); err != nil {
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

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), dynamo.ErrInvalidConfig)
}

// Validate checks ranges and cross references.
func (c *Config) Validate() error {
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if c.Dt <= 0 || c.Duration <= 0 {
		return invalid("dt and duration must be positive")
	}
	if c.TimeScale < 0 {
		return invalid("time_scale must not be negative")
	}
	if c.Gravity.G < 0 {
		return invalid("gravity.g must not be negative")
	}
	if c.Vehicle.Mass <= 0 || c.Vehicle.Width <= 0 || c.Vehicle.Height <= 0 {
		return invalid("vehicle mass and size must be positive")
	}
	seen := make(map[string]bool)
	for _, th := range c.Vehicle.Thrusters {
		if th.ID == "" || seen[th.ID] {
			return invalid("thruster id %q missing or repeated", th.ID)
		}
		seen[th.ID] = true
		if _, err := parseKind(th.Kind); err != nil {
			return err
		}
	}

	names := make(map[string]bool)
	for _, b := range c.Bodies {
		if b.Name == "" || names[b.Name] {
			return invalid("body name %q missing or repeated", b.Name)
		}
		names[b.Name] = true
		if b.Radius <= 0 || b.Mass < 0 {
			return invalid("body %s: radius must be positive and mass non-negative", b.Name)
		}
	}
	for _, b := range c.Bodies {
		if b.Orbit == nil {
			continue
		}
		if b.Orbit.Parent == b.Name || !names[b.Orbit.Parent] {
			return invalid("body %s: bad orbit parent %q", b.Name, b.Orbit.Parent)
		}
		if b.Orbit.Period == 0 {
			return invalid("body %s: orbit period must be non-zero", b.Name)
		}
	}
	if len(c.Bodies) == 0 {
		return invalid("at least one body is required")
	}
	if c.Home != "" && !names[c.Home] {
		return invalid("home body %q not defined", c.Home)
	}
	if c.Start.Body != "" && !names[c.Start.Body] {
		return invalid("start body %q not defined", c.Start.Body)
	}
	return c.Thresholds.Validate()
}

func (t Thresholds) Validate() error {
	positive := map[string]float64{
		"proximity":      t.Proximity,
		"land_angle_deg": t.LandAngle,
		"speed":          t.Speed,
		"spin":           t.Spin,
		"check_interval": t.CheckInterval,
		"max_dt":         t.MaxDt,
	}
	for name, v := range positive {
		if v <= 0 {
			return invalid("thresholds.%s must be positive", name)
		}
	}
	if t.LiftoffFraction < 0 || t.LiftoffFraction > 1 {
		return invalid("thresholds.liftoff_fraction must be in [0, 1]")
	}
	if t.DamageFactor < 0 || t.CollisionThreshold < 0 || t.LiftoffSpeed < 0 || t.CheckMargin < 0 {
		return invalid("thresholds must not be negative")
	}
	return nil
}

func parseKind(kind string) (models.ThrusterKind, error) {
	switch models.ThrusterKind(kind) {
	case models.KindMain, models.KindRear, models.KindLateral:
		return models.ThrusterKind(kind), nil
	}
	return "", invalid("unknown thruster kind %q", kind)
}

// BuildVehicle creates the vehicle with full fuel and health. Its position
// is left at the origin.
func (c *Config) BuildVehicle() (*models.Vehicle, error) {
	vc := c.Vehicle
	inertia := vc.Inertia
	if inertia == 0 {
		inertia = vc.Mass * 1.5
	}
	radius := vc.Radius
	if radius == 0 {
		radius = vc.Height / 2 * 0.8
	}
	collision := vc.CollisionRadius
	if collision == 0 {
		collision = vc.Width / 2
	}
	fuel, health := vc.FuelMax, vc.HealthMax
	if health == 0 {
		health = DefaultHealthMax
	}

	v, err := models.NewVehicle(vc.Mass, inertia, radius, collision, fuel, health)
	if err != nil {
		return nil, err
	}
	for _, tc := range vc.Thrusters {
		kind, err := parseKind(tc.Kind)
		if err != nil {
			return nil, err
		}
		err = v.AddThruster(&models.Thruster{
			ID:       models.ThrusterID(tc.ID),
			Kind:     kind,
			MaxPower: tc.MaxPower,
			MaxForce: tc.MaxForce,
			Mount:    dynamo.V(tc.MountX, tc.MountY),
			FuelRate: tc.FuelRate,
		})
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// BuildUniverse creates the celestial bodies, their orbits and selects the
// home body.
func (c *Config) BuildUniverse() (*models.Universe, orbit.System, error) {
	u := models.NewUniverse()
	for _, bc := range c.Bodies {
		err := u.Add(&models.CelestialBody{
			Name:     bc.Name,
			Position: dynamo.V(bc.X, bc.Y),
			Mass:     bc.Mass,
			Radius:   bc.Radius,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	var orbits orbit.System
	for _, bc := range orderedOrbits(c.Bodies) {
		body, _ := u.Body(bc.Name)
		parent, ok := u.Body(bc.Orbit.Parent)
		if !ok {
			return nil, nil, fmt.Errorf("orbit parent %s: %w", bc.Orbit.Parent, dynamo.ErrUnknownBody)
		}
		o, err := orbit.NewCircular(body, parent, bc.Orbit.Period)
		if err != nil {
			return nil, nil, err
		}
		orbits = append(orbits, o)
	}

	if c.Home != "" {
		if err := u.SetHome(c.Home); err != nil {
			return nil, nil, err
		}
	}
	return u, orbits, nil
}

// orderedOrbits sorts orbiting bodies so that parents are advanced before
// their satellites. Cycles are left in config order.
func orderedOrbits(bodies []BodyConfig) []BodyConfig {
	byName := make(map[string]BodyConfig, len(bodies))
	for _, b := range bodies {
		byName[b.Name] = b
	}
	depth := func(b BodyConfig) int {
		d := 0
		for cur := b; cur.Orbit != nil && d <= len(bodies); d++ {
			cur = byName[cur.Orbit.Parent]
		}
		return d
	}

	var out []BodyConfig
	for level := 1; level <= len(bodies)+1; level++ {
		for _, b := range bodies {
			if b.Orbit != nil && depth(b) == level {
				out = append(out, b)
			}
		}
	}
	return out
}
