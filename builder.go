package reliefbuilder

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

type Options struct {
	// Side length of the square working grid the image is stretched to.
	// The extrusion assumes uniform spacing, so the aspect ratio is not kept.
	// Ideal start: 256; larger values roughly quadruple the triangle count.
	Size int
	// Height scale. A sample of intensity v becomes a vertex at z = v*Scale.
	// Zero is valid and produces a flat plate.
	Scale float64
	// Close the shell with a bottom cap at z=0. Walls are emitted either way;
	// with Base the mesh is a printable solid with no open boundary.
	Base bool
	// Gaussian-smooth the intensity grid before extrusion. Reduces aliasing
	// on high-contrast symbol art.
	Smooth bool
	// Standard deviation for Smooth. Must be positive when Smooth is set.
	Sigma float64
	// By default the grayscale image is inverted so dark strokes on a white
	// or transparent background protrude. Negative keeps bright regions tall
	// instead.
	Negative bool
	// Snap intensities to this many k-means levels for stepped reliefs.
	// Zero disables quantization; one is rejected.
	QuantizeLevels int
	// Replacement color for transparent pixels. Commonly white so cleared
	// background drops out of the (inverted) relief.
	Background colorful.Color
}

func DefaultOptions() Options {
	return Options{
		Size:       256,
		Scale:      0.1,
		Smooth:     true,
		Sigma:      1.0,
		Background: colorful.Color{R: 1, G: 1, B: 1},
	}
}

func (o Options) validate() error {
	if o.Size <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "size %d", o.Size)
	}
	if o.Scale < 0 {
		return errors.Wrapf(ErrInvalidParameter, "scale %g", o.Scale)
	}
	if o.Smooth && o.Sigma <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "sigma %g", o.Sigma)
	}
	if o.QuantizeLevels == 1 || o.QuantizeLevels < 0 {
		return errors.Wrapf(ErrInvalidParameter, "quantize levels %d", o.QuantizeLevels)
	}
	return nil
}

// ReliefBuilder runs the image-to-mesh pipeline. Build fills the intermediate
// grids stage by stage; each conversion is a pure function of the input image
// and options, so independent builders may run concurrently.
type ReliefBuilder struct {
	InputImage image.Image
	Rgb        *RGBGrid
	Gray       *GrayGrid
	Triangles  []Triangle
}

func NewReliefBuilder(input image.Image) *ReliefBuilder {
	return &ReliefBuilder{InputImage: input}
}

// Build validates opt eagerly, then runs alpha resolution, resampling,
// grayscale reduction, optional smoothing, inversion, optional quantization
// and extrusion in order. On error the remaining stages are skipped.
func (rb *ReliefBuilder) Build(opt Options) error {
	if err := opt.validate(); err != nil {
		return err
	}
	if rb.InputImage == nil {
		return errors.Wrap(ErrPrecondition, "nil input image")
	}

	rgba := NewRGBAGridFromImage(rb.InputImage)
	if rgba.W == 0 || rgba.H == 0 {
		return errors.Wrap(ErrPrecondition, "empty input image")
	}
	rgb, err := rgba.ResolveAlpha(opt.Background).Resample(opt.Size)
	if err != nil {
		return err
	}
	rb.Rgb = rgb
	rb.Gray = rb.Rgb.Grayscale()

	if opt.Smooth {
		if err := rb.Gray.Smooth(opt.Sigma); err != nil {
			return err
		}
	}
	if !opt.Negative {
		rb.Gray.Invert()
	}
	if opt.QuantizeLevels > 0 {
		if err := rb.Gray.Quantize(opt.QuantizeLevels); err != nil {
			return err
		}
	}

	tris, err := Extrude(rb.Gray, opt.Scale, opt.Base)
	if err != nil {
		return err
	}
	rb.Triangles = tris
	return nil
}
