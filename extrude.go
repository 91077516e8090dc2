package reliefbuilder

import (
	"math"

	"github.com/pkg/errors"
)

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Triangle is one mesh facet. Vertices are ordered counter-clockwise viewed
// from outside the solid.
type Triangle struct {
	A, B, C Vec3
}

// Normal returns the unit facet normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) Normal() Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	l := math.Sqrt(n.Dot(n))
	if l == 0 {
		return Vec3{}
	}
	return Vec3{n.X / l, n.Y / l, n.Z / l}
}

// Extrude converts an intensity grid into a triangle mesh. Each sample
// becomes a surface vertex at z = intensity*scale, with x taken from the
// column index and y from the flipped row index so the print is not mirrored
// relative to the source image. Vertical walls down to z=0 are always emitted
// along the four grid boundaries; base additionally closes the shell with a
// two-triangle bottom cap at z=0, producing a solid with no open boundary.
//
// A scale of zero is valid and degenerates to a flat plate at z=0.
func Extrude(g *GrayGrid, scale float64, base bool) ([]Triangle, error) {
	if scale < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "height scale %g", scale)
	}
	if g == nil || g.W < 2 || g.H < 2 {
		return nil, errors.Wrap(ErrPrecondition, "extrude needs a grid of at least 2x2 samples")
	}
	w, h := g.W, g.H
	n := 2*(h-1)*(w-1) + 4*(h-1) + 4*(w-1)
	if base {
		n += 2
	}
	tris := make([]Triangle, 0, n)

	top := func(r, c int) Vec3 {
		return Vec3{
			X: float64(c),
			Y: float64(h - 1 - r),
			Z: g.Pix[r*w+c] * scale,
		}
	}
	bottom := func(r, c int) Vec3 {
		return Vec3{X: float64(c), Y: float64(h - 1 - r)}
	}

	// Top surface: two triangles per 2x2 block, normals facing up.
	for r := 0; r < h-1; r++ {
		for c := 0; c < w-1; c++ {
			a := top(r, c)
			b := top(r, c+1)
			cc := top(r+1, c+1)
			d := top(r+1, c)
			tris = append(tris,
				Triangle{a, d, cc},
				Triangle{a, cc, b},
			)
		}
	}

	// North wall (row 0, +y outward) and south wall (last row, -y outward).
	for c := 0; c < w-1; c++ {
		t0, t1 := top(0, c), top(0, c+1)
		b0, b1 := bottom(0, c), bottom(0, c+1)
		tris = append(tris,
			Triangle{b1, b0, t0},
			Triangle{b1, t0, t1},
		)
		t0, t1 = top(h-1, c), top(h-1, c+1)
		b0, b1 = bottom(h-1, c), bottom(h-1, c+1)
		tris = append(tris,
			Triangle{b0, b1, t1},
			Triangle{b0, t1, t0},
		)
	}

	// West wall (column 0, -x outward) and east wall (last column, +x outward).
	for r := 0; r < h-1; r++ {
		t0, t1 := top(r, 0), top(r+1, 0)
		b0, b1 := bottom(r, 0), bottom(r+1, 0)
		tris = append(tris,
			Triangle{b0, b1, t1},
			Triangle{b0, t1, t0},
		)
		t0, t1 = top(r, w-1), top(r+1, w-1)
		b0, b1 = bottom(r, w-1), bottom(r+1, w-1)
		tris = append(tris,
			Triangle{b1, b0, t0},
			Triangle{b1, t0, t1},
		)
	}

	if base {
		// Bottom cap at z=0, normal facing down.
		a := bottom(h-1, 0)
		b := bottom(h-1, w-1)
		c := bottom(0, w-1)
		d := bottom(0, 0)
		tris = append(tris,
			Triangle{a, d, c},
			Triangle{a, c, b},
		)
	}
	return tris, nil
}
