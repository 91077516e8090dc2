package reliefbuilder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

const stlHeaderText = "reliefbuilder heightmap extrusion"

// WriteSTL serializes the triangles as binary STL: an 80-byte header, a
// little-endian uint32 triangle count, then one 50-byte record per triangle
// (unit normal, three vertices as float32 triples, zero attribute word).
// Triangles are written in the order produced by the extruder.
func WriteSTL(w io.Writer, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], stlHeaderText)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}
	var buf [50]byte
	for _, t := range tris {
		n := t.Normal()
		putVec3(buf[0:], n)
		putVec3(buf[12:], t.A)
		putVec3(buf[24:], t.B)
		putVec3(buf[36:], t.C)
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec3(b []byte, v Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

// WriteASCIISTL serializes the triangles in the ASCII STL dialect under the
// given solid name. Binary is the default for print workflows; the ASCII form
// is kept for inspection and diffing.
func WriteASCIISTL(w io.Writer, name string, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		n := t.Normal()
		fmt.Fprintf(bw, "  facet normal %f %f %f\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range [3]Vec3{t.A, t.B, t.C} {
			fmt.Fprintf(bw, "      vertex %f %f %f\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadSTL parses a binary STL stream back into triangles. Stored facet
// normals are discarded; Triangle.Normal recomputes them from the winding.
func ReadSTL(r io.Reader) ([]Triangle, error) {
	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read stl header")
	}
	tris := make([]Triangle, 0, header.NTri)
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, errors.Wrapf(err, "read stl triangle %d", i)
		}
		const start = 3 * 4 // skip normal
		var t Triangle
		t.A = getVec3(triBuf[start:])
		t.B = getVec3(triBuf[start+12:])
		t.C = getVec3(triBuf[start+24:])
		tris = append(tris, t)
	}
	return tris, nil
}

func getVec3(b []byte) Vec3 {
	return Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}

// SaveSTL writes a binary STL file at path. The write is not transactional:
// a failure can leave a partial file behind for the caller to clean up.
func SaveSTL(path string, tris []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrWrite, "create %s: %s", path, err)
	}
	if err := WriteSTL(f, tris); err != nil {
		f.Close()
		return errors.Wrapf(ErrWrite, "write %s: %s", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrWrite, "close %s: %s", path, err)
	}
	return nil
}

// SaveASCIISTL writes an ASCII STL file at path.
func SaveASCIISTL(path, name string, tris []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrWrite, "create %s: %s", path, err)
	}
	if err := WriteASCIISTL(f, name, tris); err != nil {
		f.Close()
		return errors.Wrapf(ErrWrite, "write %s: %s", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrWrite, "close %s: %s", path, err)
	}
	return nil
}
