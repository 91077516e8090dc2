package utils

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/setanarut/reliefbuilder"
)

func solidImage(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseBackground(t *testing.T) {
	for _, tc := range []struct {
		in      string
		r, g, b float64
		wantErr bool
	}{
		{in: "white", r: 1, g: 1, b: 1},
		{in: "WHITE", r: 1, g: 1, b: 1},
		{in: "black"},
		{in: "#ff0000", r: 1},
		{in: "#00ff00", g: 1},
		{in: "not-a-color", wantErr: true},
		{in: "", wantErr: true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseBackground(tc.in)
			if tc.wantErr {
				if !errors.Is(err, reliefbuilder.ErrInvalidParameter) {
					t.Fatalf("error = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBackground(%q): %v", tc.in, err)
			}
			if c.R != tc.r || c.G != tc.g || c.B != tc.b {
				t.Fatalf("got %+v, want {%g %g %g}", c, tc.r, tc.g, tc.b)
			}
		})
	}
}

func TestDominantBackgroundSolidColor(t *testing.T) {
	img := solidImage(color.NRGBA{R: 255, A: 255}, 50, 50)
	c := DominantBackground(img)
	if c.R < 0.9 || c.G > 0.1 || c.B > 0.1 {
		t.Fatalf("dominant color = %+v, want red", c)
	}
}

func TestReadImageMissingFile(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, reliefbuilder.ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
}

func TestSaveGrayPNGRoundTrip(t *testing.T) {
	g := &reliefbuilder.GrayGrid{W: 4, H: 4, Pix: make([]float64, 16)}
	for i := range g.Pix {
		g.Pix[i] = float64(i) / 15
	}
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := SaveGrayPNG(g, path); err != nil {
		t.Fatalf("SaveGrayPNG: %v", err)
	}
	img, err := ReadImage(path)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("preview bounds = %v, want 4x4", img.Bounds())
	}
}
