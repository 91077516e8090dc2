package reliefbuilder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readBack(path string) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSTL(f)
}

func TestSTLRoundTrip(t *testing.T) {
	tris, err := Extrude(uniformGrid(4, 3, 0.5), 1, true)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSTL(&buf, tris); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	if want := 84 + 50*len(tris); buf.Len() != want {
		t.Fatalf("binary STL is %d bytes, want %d", buf.Len(), want)
	}

	back, err := ReadSTL(&buf)
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if len(back) != len(tris) {
		t.Fatalf("round trip gave %d triangles, want %d", len(back), len(tris))
	}
	// All coordinates here are small integers and halves, exact in float32.
	for i := range tris {
		if back[i] != tris[i] {
			t.Fatalf("triangle %d = %+v after round trip, want %+v", i, back[i], tris[i])
		}
	}
}

func TestSTLWriteOrderPreserved(t *testing.T) {
	tris := []Triangle{
		{A: Vec3{0, 0, 0}, B: Vec3{1, 0, 0}, C: Vec3{0, 1, 0}},
		{A: Vec3{5, 0, 0}, B: Vec3{6, 0, 0}, C: Vec3{5, 1, 0}},
	}
	var buf bytes.Buffer
	if err := WriteSTL(&buf, tris); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	back, err := ReadSTL(&buf)
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if back[0].A.X != 0 || back[1].A.X != 5 {
		t.Fatalf("triangle order not preserved: %+v", back)
	}
}

func TestASCIISTL(t *testing.T) {
	tris, err := Extrude(uniformGrid(3, 3, 0.25), 1, false)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteASCIISTL(&buf, "relief", tris); err != nil {
		t.Fatalf("WriteASCIISTL: %v", err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "solid relief\n") {
		t.Fatalf("missing solid header: %q", s[:min(len(s), 40)])
	}
	if got := strings.Count(s, "facet normal"); got != len(tris) {
		t.Fatalf("got %d facets, want %d", got, len(tris))
	}
	if !strings.HasSuffix(s, "endsolid relief\n") {
		t.Fatalf("missing endsolid trailer")
	}
}

func TestSaveSTL(t *testing.T) {
	tris, err := Extrude(uniformGrid(3, 3, 0.5), 1, true)
	if err != nil {
		t.Fatalf("Extrude: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.stl")
	if err := SaveSTL(path, tris); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}
	f, err := readBack(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(f) != len(tris) {
		t.Fatalf("saved file has %d triangles, want %d", len(f), len(tris))
	}
}

func TestSaveSTLUnwritablePath(t *testing.T) {
	tris := []Triangle{{A: Vec3{}, B: Vec3{1, 0, 0}, C: Vec3{0, 1, 0}}}
	err := SaveSTL(filepath.Join(t.TempDir(), "missing", "out.stl"), tris)
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("error = %v, want ErrWrite", err)
	}
}
