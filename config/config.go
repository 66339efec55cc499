// Package config loads the tuning of a mech and the world it walks in from a
// single YAML document. Anything missing from the document keeps its default.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adammck/mech/components/cannon"
	"github.com/adammck/mech/components/legs"
	"github.com/adammck/mech/components/walker"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

// Environment variable which overrides http.listen.
const listenEnv = "MECH_HTTP"

type Config struct {
	Tick    Tick           `yaml:"tick"`
	Spawn   math3d.Vector3 `yaml:"spawn"`
	Body    Body           `yaml:"body"`
	Legs    legs.Config    `yaml:"legs"`
	Walker  walker.Config  `yaml:"walker"`
	Cannon  cannon.Config  `yaml:"cannon"`
	Terrain Terrain        `yaml:"terrain"`
	HTTP    HTTP           `yaml:"http"`

	// Name of the saved design to build. Empty means the starter design.
	Design string `yaml:"design"`
}

type Tick struct {
	Rate float64 `yaml:"rate"` // Hz
}

// Interval returns the time between ticks.
func (t Tick) Interval() time.Duration {
	return time.Duration(float64(time.Second) / t.Rate)
}

// Body is the shape of the rig: the rectangle of hips, and the bone lengths.
// The feet rest legs.bodyHeight below the hips.
type Body struct {
	Width  float64 `yaml:"width"`
	Length float64 `yaml:"length"`
	Thigh  float64 `yaml:"thigh"`
	Shin   float64 `yaml:"shin"`
}

type HTTP struct {

	// Address for the debug server. Empty disables it.
	Listen string `yaml:"listen"`

	// Minimum time between published snapshots.
	Publish time.Duration `yaml:"publish"`
}

// Terrain describes the ground. Every section present is added to the world.
type Terrain struct {
	Plane       *PlaneConfig       `yaml:"plane"`
	Heightfield *HeightfieldConfig `yaml:"heightfield"`
}

type PlaneConfig struct {
	Height float64     `yaml:"height"`
	Layer  ground.Mask `yaml:"layer"`

	// If both are set, the plane only exists within this rectangle.
	Min *math3d.Vector3 `yaml:"min"`
	Max *math3d.Vector3 `yaml:"max"`
}

type HeightfieldConfig struct {
	Origin   math3d.Vector3 `yaml:"origin"`
	CellSize float64        `yaml:"cellSize"`
	Heights  [][]float64    `yaml:"heights"`
	Layer    ground.Mask    `yaml:"layer"`
}

func Default() Config {
	return Config{
		Tick:   Tick{Rate: 60},
		Spawn:  math3d.Vector3{Y: 2},
		Body:   Body{Width: 2, Length: 3, Thigh: 1.5, Shin: 1.5},
		Legs:   legs.DefaultConfig(),
		Walker: walker.DefaultConfig(),
		Cannon: cannon.DefaultConfig(),
		Terrain: Terrain{
			Plane: &PlaneConfig{Layer: ground.LayerTerrain},
		},
		HTTP: HTTP{
			Publish: 100 * time.Millisecond,
		},
	}
}

// Parse overlays the given YAML document onto the defaults, applies the
// environment, and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if v := os.Getenv(listenEnv); v != "" {
		c.HTTP.Listen = v
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads the config at path. If path is empty, the defaults are used.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (while loading %s)", err, path)
	}

	return c, nil
}

func (c Config) Validate() error {
	if c.Tick.Rate <= 0 {
		return fmt.Errorf("tick.rate must be positive, got %0.2f", c.Tick.Rate)
	}

	b := c.Body
	if b.Width <= 0 || b.Length <= 0 || b.Thigh <= 0 || b.Shin <= 0 {
		return fmt.Errorf("body dimensions must be positive, got %+v", b)
	}

	if err := c.Legs.Validate(); err != nil {
		return fmt.Errorf("legs: %w", err)
	}

	if err := c.Walker.Validate(); err != nil {
		return fmt.Errorf("walker: %w", err)
	}

	if c.Cannon.MuzzleSpeed <= 0 {
		return fmt.Errorf("cannon: muzzleSpeed must be positive, got %0.2f", c.Cannon.MuzzleSpeed)
	}

	if c.HTTP.Publish < 0 {
		return fmt.Errorf("http.publish must not be negative, got %s", c.HTTP.Publish)
	}

	if c.Terrain.Plane == nil && c.Terrain.Heightfield == nil {
		return fmt.Errorf("terrain: need a plane or a heightfield")
	}

	return nil
}

// Build returns the world described by the terrain config.
func (t Terrain) Build() (*ground.World, error) {
	w := ground.NewWorld()

	if p := t.Plane; p != nil {
		var c ground.Caster = ground.NewPlane(p.Height, layer(p.Layer))

		if p.Min != nil && p.Max != nil {
			c = ground.NewBounded(*p.Min, *p.Max, c)
		}

		w.Add(c)
	}

	if h := t.Heightfield; h != nil {
		hf, err := ground.NewHeightfield(h.Origin, h.CellSize, h.Heights, layer(h.Layer))
		if err != nil {
			return nil, fmt.Errorf("terrain: %w", err)
		}

		w.Add(hf)
	}

	return w, nil
}

// layer defaults an unset layer to terrain.
func layer(m ground.Mask) ground.Mask {
	if m == 0 {
		return ground.LayerTerrain
	}

	return m
}
