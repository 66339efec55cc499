package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

func write(t *testing.T, doc string) string {
	path := filepath.Join(t.TempDir(), "mech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Second/60, c.Tick.Interval())
}

func TestLoadEmptyPath(t *testing.T) {
	t.Setenv(listenEnv, "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv(listenEnv, "")

	c, err := Load(write(t, `
tick:
  rate: 30
legs:
  stepDistance: 2
  gait: lateral
  groundMask: [terrain, structure]
cannon:
  cooldown: 250ms
http:
  listen: ":8080"
design: scout
`))
	require.NoError(t, err)

	assert.Equal(t, 30.0, c.Tick.Rate)
	assert.Equal(t, 2.0, c.Legs.StepDistance)
	assert.Equal(t, gait.Lateral, c.Legs.Gait)
	assert.Equal(t, ground.LayerTerrain|ground.LayerStructure, c.Legs.GroundMask)
	assert.Equal(t, 250*time.Millisecond, c.Cannon.Cooldown)
	assert.Equal(t, ":8080", c.HTTP.Listen)
	assert.Equal(t, "scout", c.Design)

	// Untouched keys keep their defaults, even within a touched section.
	d := Default()
	assert.Equal(t, d.Legs.StepSpeed, c.Legs.StepSpeed)
	assert.Equal(t, d.Legs.FootRotationOffset, c.Legs.FootRotationOffset)
	assert.Equal(t, d.Walker, c.Walker)
	assert.Equal(t, d.HTTP.Publish, c.HTTP.Publish)
}

func TestEnvOverridesListen(t *testing.T) {
	t.Setenv(listenEnv, "127.0.0.1:9999")

	c, err := Load(write(t, "http:\n  listen: \":8080\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", c.HTTP.Listen)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(listenEnv, "")

	examples := map[string]string{
		"syntax":          "tick: [",
		"zero tick rate":  "tick:\n  rate: 0\n",
		"zero step speed": "legs:\n  stepSpeed: 0\n",
		"zero step dist":  "legs:\n  stepDistance: 0\n",
		"zero check dist": "legs:\n  groundCheckDistance: 0\n",
		"bad gait":        "legs:\n  gait: gallop\n",
		"bad layer":       "legs:\n  groundMask: lava\n",
		"no terrain":      "terrain:\n  plane: null\n",
		"short bones":     "body:\n  thigh: 0\n",
	}

	for name, doc := range examples {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, doc))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTerrainBuild(t *testing.T) {
	t.Setenv(listenEnv, "")

	c, err := Parse([]byte(`
terrain:
  plane:
    height: 0
    min: {x: -5, y: 0, z: -5}
    max: {x: 5, y: 0, z: 5}
  heightfield:
    origin: {x: 10, y: 0, z: 0}
    cellSize: 1
    layer: structure
    heights:
      - [1, 1]
      - [1, 1]
`))
	require.NoError(t, err)

	w, err := c.Terrain.Build()
	require.NoError(t, err)
	require.Len(t, w.Casters, 2)

	// On the plane.
	hit, ok := w.CastDown(math3d.Vector3{Y: 3}, 10, ground.Everything)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Point.Y, 1e-9)

	// Off the edge of the plane, but not yet on the heightfield.
	_, ok = w.CastDown(math3d.Vector3{X: 7, Y: 3}, 10, ground.Everything)
	assert.False(t, ok)

	// On the heightfield, which is only on the structure layer.
	hit, ok = w.CastDown(math3d.Vector3{X: 10.5, Y: 3, Z: 0.5}, 10, ground.Everything)
	require.True(t, ok)
	assert.InDelta(t, 1, hit.Point.Y, 1e-9)

	_, ok = w.CastDown(math3d.Vector3{X: 10.5, Y: 3, Z: 0.5}, 10, ground.LayerTerrain)
	assert.False(t, ok)
}

func TestTerrainBuildInvalidHeightfield(t *testing.T) {
	tr := Terrain{Heightfield: &HeightfieldConfig{CellSize: 1, Heights: [][]float64{{1}}}}
	_, err := tr.Build()
	assert.Error(t, err)
}
