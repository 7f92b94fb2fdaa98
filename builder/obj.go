package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ObjImporter reads the v and f records of a Wavefront OBJ file into flat
// buffers. Polygonal faces are fan triangulated; everything else is ignored.
type ObjImporter struct {
	vertexPositions []float32
	meshFaces       []uint32
	line            int
}

// LoadOBJ parses OBJ text from r
func LoadOBJ(r io.Reader) ([]float32, []uint32, error) {
	importer := &ObjImporter{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		importer.line++
		if err := importer.readLine(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, nil, fmt.Errorf("obj line %d: %w", importer.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read obj: %w", err)
	}
	return importer.vertexPositions, importer.meshFaces, nil
}

// LoadOBJFile parses the OBJ file at path
func LoadOBJFile(path string) ([]float32, []uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open obj: %w", err)
	}
	defer file.Close()
	return LoadOBJ(file)
}

func (imp *ObjImporter) readLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "v":
		return imp.readVector(fields[1:])
	case "f":
		return imp.readFace(fields[1:])
	}
	return nil
}

func (imp *ObjImporter) readVector(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("invalid vector, expected 3 coordinates, found %d", len(fields))
	}
	for _, f := range fields[:3] {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		imp.vertexPositions = append(imp.vertexPositions, float32(x))
	}
	return nil
}

func (imp *ObjImporter) readFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("invalid number of face vertices: 3 expected, found %d", len(fields))
	}
	ids := make([]uint32, len(fields))
	for i, f := range fields {
		id, err := imp.readFaceVertex(f)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	for j := 1; j+1 < len(ids); j++ {
		imp.meshFaces = append(imp.meshFaces, ids[0], ids[j], ids[j+1])
	}
	return nil
}

// readFaceVertex resolves "i", "i/t", "i//n" or "i/t/n", with negative
// indices counting back from the last vertex.
func (imp *ObjImporter) readFaceVertex(face string) (uint32, error) {
	ref, _, _ := strings.Cut(face, "/")
	i, err := strconv.ParseInt(ref, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid face vertex %q: %w", face, err)
	}
	count := int64(len(imp.vertexPositions) / 3)
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("0 vertex index")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("vertex index %s out of range", ref)
	}
	return uint32(i), nil
}
