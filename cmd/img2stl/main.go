// Command img2stl converts a raster image into a 3D-printable STL relief.
// Pixel intensity becomes surface elevation; by default dark strokes on a
// white or transparent background protrude.
//
// Usage:
//
//	img2stl [flags] <input image> <output stl>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/setanarut/reliefbuilder"
	"github.com/setanarut/reliefbuilder/utils"
)

func main() {
	opt := reliefbuilder.DefaultOptions()
	var background string
	var preview string
	var ascii bool

	flag.IntVar(&opt.Size, "size", opt.Size, "side length of the square working grid")
	flag.Float64Var(&opt.Scale, "scale", opt.Scale, "height scaling of the relief")
	flag.BoolVar(&opt.Base, "base", opt.Base, "close the mesh with a flat base")
	flag.BoolVar(&opt.Smooth, "smooth", opt.Smooth, "gaussian-smooth the image before extrusion")
	flag.Float64Var(&opt.Sigma, "sigma", opt.Sigma, "standard deviation for smoothing")
	flag.BoolVar(&opt.Negative, "negative", opt.Negative, "keep bright regions tall instead of dark ones")
	flag.IntVar(&opt.QuantizeLevels, "levels", opt.QuantizeLevels, "snap heights to this many levels (0 disables)")
	flag.StringVar(&background, "background", "white", "transparent pixel replacement: white, black, #rrggbb or auto")
	flag.StringVar(&preview, "preview", "", "also write the heightmap as a grayscale PNG at this path")
	flag.BoolVar(&ascii, "ascii", false, "write ASCII STL instead of binary")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <input image> <output stl>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
	}
	inputPath := flag.Arg(0)
	outputPath := flag.Arg(1)

	log.Printf("reading image at %s", inputPath)
	img, err := utils.ReadImage(inputPath)
	if err != nil {
		log.Fatal(err)
	}

	if background == "auto" {
		bg := utils.DominantBackground(img)
		log.Printf("detected background color %s", bg.Hex())
		opt.Background = bg
	} else {
		bg, err := utils.ParseBackground(background)
		if err != nil {
			log.Fatal(err)
		}
		opt.Background = bg
	}

	log.Printf("building %dx%d relief (base=%v smooth=%v negative=%v scale=%g)",
		opt.Size, opt.Size, opt.Base, opt.Smooth, opt.Negative, opt.Scale)
	rb := reliefbuilder.NewReliefBuilder(img)
	if err := rb.Build(opt); err != nil {
		log.Fatal(err)
	}

	if preview != "" {
		if err := utils.SaveGrayPNG(rb.Gray, preview); err != nil {
			log.Fatal(err)
		}
		log.Printf("heightmap preview saved at %s", preview)
	}

	if ascii {
		err = reliefbuilder.SaveASCIISTL(outputPath, "relief", rb.Triangles)
	} else {
		err = reliefbuilder.SaveSTL(outputPath, rb.Triangles)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d triangles saved at %s", len(rb.Triangles), outputPath)
}
