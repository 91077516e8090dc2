package reliefbuilder

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
)

// RGBAGrid is a decoded image as interleaved RGBA samples in [0,255],
// len = W*H*4, row-major with the origin at the top-left.
type RGBAGrid struct {
	W, H int
	Pix  []float32
}

// RGBGrid holds opaque interleaved RGB samples in [0,255], len = W*H*3.
type RGBGrid struct {
	W, H int
	Pix  []float32
}

// GrayGrid holds one intensity per sample in [0,1], len = W*H.
// 0 is darkest, 1 is brightest. This is the extruder's sole input.
type GrayGrid struct {
	W, H int
	Pix  []float64
}

func pixOffset4(w, x, y int) int {
	return (y*w + x) * 4
}

func pixOffset3(w, x, y int) int {
	return (y*w + x) * 3
}

// NewRGBAGridFromImage samples img into an RGBAGrid. Fully opaque images
// produce alpha 255 everywhere.
func NewRGBAGridFromImage(img image.Image) *RGBAGrid {
	bounds := img.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()
	g := &RGBAGrid{
		W:   w,
		H:   h,
		Pix: make([]float32, h*w*4),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset4(w, x, y)
			g.Pix[off] = float32(r >> 8)
			g.Pix[off+1] = float32(gr >> 8)
			g.Pix[off+2] = float32(b >> 8)
			g.Pix[off+3] = float32(a >> 8)
		}
	}
	return g
}

// ResolveAlpha collapses the alpha channel: every sample that is not fully
// opaque is replaced by target, opaque samples pass through unchanged.
// Partial transparency is treated as fully transparent; there is no blending.
func (g *RGBAGrid) ResolveAlpha(target colorful.Color) *RGBGrid {
	out := &RGBGrid{
		W:   g.W,
		H:   g.H,
		Pix: make([]float32, g.W*g.H*3),
	}
	tr, tg, tb := target.RGB255()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			src := pixOffset4(g.W, x, y)
			dst := pixOffset3(g.W, x, y)
			if g.Pix[src+3] < 255 {
				out.Pix[dst] = float32(tr)
				out.Pix[dst+1] = float32(tg)
				out.Pix[dst+2] = float32(tb)
				continue
			}
			out.Pix[dst] = g.Pix[src]
			out.Pix[dst+1] = g.Pix[src+1]
			out.Pix[dst+2] = g.Pix[src+2]
		}
	}
	return out
}

// Resample stretches the grid to size×size with bilinear interpolation.
// The aspect ratio is intentionally not preserved: the extruder assumes a
// uniform grid spacing on both axes.
func (g *RGBGrid) Resample(size int) (*RGBGrid, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "resample size %d", size)
	}
	if g.W <= 0 || g.H <= 0 {
		return nil, errors.Wrap(ErrPrecondition, "resample empty grid")
	}
	src := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			off := pixOffset3(g.W, x, y)
			src.SetNRGBA(x, y, color.NRGBA{
				R: uint8(g.Pix[off]),
				G: uint8(g.Pix[off+1]),
				B: uint8(g.Pix[off+2]),
				A: 255,
			})
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := &RGBGrid{
		W:   size,
		H:   size,
		Pix: make([]float32, size*size*3),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dst.NRGBAAt(x, y)
			off := pixOffset3(size, x, y)
			out.Pix[off] = float32(c.R)
			out.Pix[off+1] = float32(c.G)
			out.Pix[off+2] = float32(c.B)
		}
	}
	return out, nil
}

// Grayscale reduces the grid to intensities in [0,1] with Rec.709 luma
// weights.
func (g *RGBGrid) Grayscale() *GrayGrid {
	out := &GrayGrid{
		W:   g.W,
		H:   g.H,
		Pix: make([]float64, g.W*g.H),
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			off := pixOffset3(g.W, x, y)
			r := float64(g.Pix[off])
			gr := float64(g.Pix[off+1])
			b := float64(g.Pix[off+2])
			out.Pix[y*g.W+x] = (0.2126*r + 0.7152*gr + 0.0722*b) / 255.0
		}
	}
	return out
}

// Smooth applies a separable Gaussian blur with the given standard deviation
// in place. Samples outside the grid are clamped to the nearest edge sample.
func (g *GrayGrid) Smooth(sigma float64) error {
	if sigma <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "smooth sigma %g", sigma)
	}
	if g.W <= 0 || g.H <= 0 {
		return errors.Wrap(ErrPrecondition, "smooth empty grid")
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	tmp := make([]float64, len(g.Pix))
	// Horizontal pass.
	for y := 0; y < g.H; y++ {
		row := y * g.W
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for i, k := range kernel {
				sx := clampInt(x+i-radius, 0, g.W-1)
				sum += k * g.Pix[row+sx]
			}
			tmp[row+x] = sum
		}
	}
	// Vertical pass.
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for i, k := range kernel {
				sy := clampInt(y+i-radius, 0, g.H-1)
				sum += k * tmp[sy*g.W+x]
			}
			g.Pix[y*g.W+x] = sum
		}
	}
	return nil
}

// Invert maps every intensity v to 1-v in place. Applying it twice restores
// the grid up to floating-point rounding.
func (g *GrayGrid) Invert() {
	floats.Scale(-1, g.Pix)
	floats.AddConst(1, g.Pix)
}

// Quantize snaps intensities to levels k-means centers, producing stepped
// reliefs that slice into clean discrete layers. The sample set is
// subsampled on large grids to keep the clustering tractable.
func (g *GrayGrid) Quantize(levels int) error {
	if levels < 2 {
		return errors.Wrapf(ErrInvalidParameter, "quantize levels %d", levels)
	}
	if len(g.Pix) == 0 {
		return errors.Wrap(ErrPrecondition, "quantize empty grid")
	}
	maxSamples := 12000
	step := 1
	if len(g.Pix) > maxSamples {
		step = len(g.Pix)/maxSamples + 1
	}
	dataset := make(clusters.Observations, 0, len(g.Pix)/step+1)
	for i := 0; i < len(g.Pix); i += step {
		dataset = append(dataset, clusters.Coordinates{g.Pix[i]})
	}
	if levels > len(dataset) {
		levels = len(dataset)
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, levels)
	if err != nil {
		return errors.Wrap(err, "quantize intensities")
	}
	centers := make([]float64, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) > 0 {
			centers = append(centers, c.Center[0])
		}
	}
	if len(centers) == 0 {
		return errors.Wrap(ErrPrecondition, "quantize produced no centers")
	}
	for i, v := range g.Pix {
		best := centers[0]
		bestD := math.Abs(v - best)
		for _, c := range centers[1:] {
			if d := math.Abs(v - c); d < bestD {
				bestD = d
				best = c
			}
		}
		g.Pix[i] = best
	}
	return nil
}

// Image renders the grid as an 8-bit grayscale image, useful for previewing
// the heightmap before extrusion.
func (g *GrayGrid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := g.Pix[y*g.W+x]
			v = min(1, max(0, v))
			img.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
		}
	}
	return img
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
