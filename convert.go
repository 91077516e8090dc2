package reliefbuilder

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Convert decodes the image at inputPath, runs the pipeline with opt and
// writes a binary STL file at outputPath. This is the whole external
// contract: six parameters and two paths in, one mesh file out.
func Convert(inputPath, outputPath string, opt Options) error {
	if err := opt.validate(); err != nil {
		return err
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrapf(ErrDecode, "open %s: %s", inputPath, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(ErrDecode, "decode %s: %s", inputPath, err)
	}

	rb := NewReliefBuilder(img)
	if err := rb.Build(opt); err != nil {
		return err
	}
	return SaveSTL(outputPath, rb.Triangles)
}
