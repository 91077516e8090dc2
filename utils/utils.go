package utils

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"github.com/setanarut/reliefbuilder"
)

// ReadImage decodes the image file at path. PNG, JPEG, GIF and WebP are
// registered.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(reliefbuilder.ErrDecode, "open %s: %s", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(reliefbuilder.ErrDecode, "decode %s: %s", path, err)
	}
	return img, nil
}

// SaveImage writes img to filename as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SaveGrayPNG writes the intensity grid as a grayscale PNG, useful for
// previewing the heightmap that will be extruded.
func SaveGrayPNG(g *reliefbuilder.GrayGrid, filename string) error {
	return SaveImage(g.Image(), filename)
}

// DominantBackground returns the dominant color of img, a reasonable
// replacement target for transparent pixels when the true background color
// is not known up front.
func DominantBackground(img image.Image) colorful.Color {
	c, ok := colorful.MakeColor(dominantcolor.Find(img))
	if !ok {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c.Clamped()
}

// ParseBackground resolves a background flag value: "white", "black" or a
// "#rrggbb" hex color.
func ParseBackground(s string) (colorful.Color, error) {
	switch strings.ToLower(s) {
	case "white":
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	case "black":
		return colorful.Color{}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(reliefbuilder.ErrInvalidParameter, "background %q", s)
	}
	return c, nil
}
