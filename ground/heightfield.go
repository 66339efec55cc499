package ground

import (
	"fmt"
	"math"

	"github.com/adammck/mech/math3d"
)

// Heightfield is a grid of heights, sampled every CellSize units on the X and Z
// axes starting at Origin. Between samples the height is interpolated
// bilinearly. Outside the grid, casts miss.
type Heightfield struct {
	Origin   math3d.Vector3
	CellSize float64
	Heights  [][]float64 // [z][x]
	Layer    Mask
}

func NewHeightfield(origin math3d.Vector3, cellSize float64, heights [][]float64, layer Mask) (*Heightfield, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size: %0.2f", cellSize)
	}

	if len(heights) < 2 {
		return nil, fmt.Errorf("heightfield needs at least two rows, got %d", len(heights))
	}

	w := len(heights[0])
	if w < 2 {
		return nil, fmt.Errorf("heightfield needs at least two columns, got %d", w)
	}

	for i, row := range heights {
		if len(row) != w {
			return nil, fmt.Errorf("heightfield row %d has %d columns, expected %d", i, len(row), w)
		}
	}

	return &Heightfield{
		Origin:   origin,
		CellSize: cellSize,
		Heights:  heights,
		Layer:    layer,
	}, nil
}

// HeightAt returns the interpolated height at the given X/Z position, and false
// if that is outside the grid.
func (h *Heightfield) HeightAt(x, z float64) (float64, bool) {
	gx := (x - h.Origin.X) / h.CellSize
	gz := (z - h.Origin.Z) / h.CellSize
	if math.IsNaN(gx) || math.IsNaN(gz) {
		return 0, false
	}

	maxX := float64(len(h.Heights[0]) - 1)
	maxZ := float64(len(h.Heights) - 1)
	if gx < 0 || gz < 0 || gx > maxX || gz > maxZ {
		return 0, false
	}

	x0 := math.Min(math.Floor(gx), maxX-1)
	z0 := math.Min(math.Floor(gz), maxZ-1)
	fx := gx - x0
	fz := gz - z0

	ix, iz := int(x0), int(z0)
	h00 := h.Heights[iz][ix]
	h10 := h.Heights[iz][ix+1]
	h01 := h.Heights[iz+1][ix]
	h11 := h.Heights[iz+1][ix+1]

	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return h.Origin.Y + top + (bottom-top)*fz, true
}

// normalAt estimates the surface normal from the slope of the field around the
// given position.
func (h *Heightfield) normalAt(x, z, y float64) math3d.Vector3 {
	e := h.CellSize / 2

	dx := func(a, b float64) float64 {
		ha, oka := h.HeightAt(a, z)
		hb, okb := h.HeightAt(b, z)
		switch {
		case oka && okb:
			return (hb - ha) / (b - a)
		case okb:
			return (hb - y) / (b - x)
		case oka:
			return (y - ha) / (x - a)
		}
		return 0
	}

	dz := func(a, b float64) float64 {
		ha, oka := h.HeightAt(x, a)
		hb, okb := h.HeightAt(x, b)
		switch {
		case oka && okb:
			return (hb - ha) / (b - a)
		case okb:
			return (hb - y) / (b - z)
		case oka:
			return (y - ha) / (z - a)
		}
		return 0
	}

	return math3d.Vector3{X: -dx(x-e, x+e), Y: 1, Z: -dz(z-e, z+e)}.Unit()
}

func (h *Heightfield) CastDown(origin math3d.Vector3, maxDistance float64, mask Mask) (Hit, bool) {
	if h.Layer&mask == 0 {
		return Hit{}, false
	}

	y, ok := h.HeightAt(origin.X, origin.Z)
	if !ok {
		return Hit{}, false
	}

	return within(origin, y, h.normalAt(origin.X, origin.Z, y), maxDistance)
}
