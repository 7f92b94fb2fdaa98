package builder

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// maxDecompressedSize caps what Decode inflates from a gzip stream
const maxDecompressedSize = 1 << 30

// SaveOptions controls how Save writes the binary format. Decoding detects
// compression on its own.
type SaveOptions struct {
	Gzip bool
}

// polygonRecord is the fixed size part of a Polygon on disk
type polygonRecord struct {
	ID        int32
	VertexIDs [3]uint32
	Centroid  math32.Vector3
	Normal    math32.Vector3
	Island    int32
	Count     uint32
}

// reportRecord is BuildReport with fixed size fields
type reportRecord [11]uint32

func toReportRecord(r BuildReport) reportRecord {
	return reportRecord{
		uint32(r.InputVertices), uint32(r.InputTriangles), uint32(r.MergedVertices),
		uint32(r.TrailingFloats), uint32(r.TrailingIndices), uint32(r.OutOfRange),
		uint32(r.Collapsed), uint32(r.ZeroArea), uint32(r.Duplicates),
		uint32(r.NonManifoldEdges), uint32(r.BoundaryEdges),
	}
}

func (r reportRecord) report() BuildReport {
	return BuildReport{
		InputVertices: int(r[0]), InputTriangles: int(r[1]), MergedVertices: int(r[2]),
		TrailingFloats: int(r[3]), TrailingIndices: int(r[4]), OutOfRange: int(r[5]),
		Collapsed: int(r[6]), ZeroArea: int(r[7]), Duplicates: int(r[8]),
		NonManifoldEdges: int(r[9]), BoundaryEdges: int(r[10]),
	}
}

// Encode writes the mesh in the binary format, gzipped when compress is set.
func Encode(navMesh *NavMesh, compress bool) ([]byte, error) {
	// 验证数据完整性
	if err := navMesh.Validate(); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	w := func(what string, v any) error {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to write %s: %w", what, err)
		}
		return nil
	}

	// 写入文件头
	header := FileHeader{Magic: NAVMESH_FILE_MAGIC, Version: NAVMESH_FILE_VERSION}
	if err := w("header", header); err != nil {
		return nil, err
	}
	if err := w("bounds", navMesh.Bounds); err != nil {
		return nil, err
	}
	if err := w("precision", navMesh.Precision); err != nil {
		return nil, err
	}
	if err := w("report", toReportRecord(navMesh.Report)); err != nil {
		return nil, err
	}

	// write vertices
	if err := w("vertex count", uint32(len(navMesh.Vertices))); err != nil {
		return nil, err
	}
	if err := w("vertices", navMesh.Vertices); err != nil {
		return nil, err
	}

	// write islands
	if err := w("island count", uint32(len(navMesh.Islands))); err != nil {
		return nil, err
	}
	for _, island := range navMesh.Islands {
		if err := w("polygon count", uint32(len(island))); err != nil {
			return nil, err
		}
		for _, poly := range island {
			record := polygonRecord{
				ID:        poly.ID,
				VertexIDs: poly.VertexIDs,
				Centroid:  poly.Centroid,
				Normal:    poly.Normal,
				Island:    poly.Island,
				Count:     uint32(len(poly.Neighbours)),
			}
			if err := w("polygon", record); err != nil {
				return nil, err
			}
			if err := w("neighbours", poly.Neighbours); err != nil {
				return nil, err
			}
			if err := w("portals", poly.Portals); err != nil {
				return nil, err
			}
		}
	}

	content := buf.Bytes()
	if compress {
		return Compress(content)
	}
	return content, nil
}

// Decode reads a mesh written by Encode, compressed or not.
func Decode(content []byte) (*NavMesh, error) {
	if isGzip(content) {
		var err error
		if content, err = Decompress(content, maxDecompressedSize); err != nil {
			return nil, err
		}
	}

	buf := bytes.NewReader(content)
	r := func(what string, v any) error {
		if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to read %s: %w", what, err)
		}
		return nil
	}
	// count reads a length prefix and rejects it when the rest of the buffer
	// cannot hold that many items of itemSize bytes
	count := func(what string, itemSize int) (int, error) {
		var n uint32
		if err := r(what, &n); err != nil {
			return 0, err
		}
		if int64(n)*int64(itemSize) > int64(buf.Len()) {
			return 0, fmt.Errorf("%w: %s %d exceeds data size", ErrInvalidMesh, what, n)
		}
		return int(n), nil
	}

	// 读取文件头
	var header FileHeader
	if err := r("header", &header); err != nil {
		return nil, err
	}
	if header.Magic != NAVMESH_FILE_MAGIC {
		return nil, ErrWrongMagic
	}
	if header.Version != NAVMESH_FILE_VERSION {
		return nil, fmt.Errorf("%w: %d", ErrWrongVersion, header.Version)
	}

	navMesh := &NavMesh{}
	if err := r("bounds", &navMesh.Bounds); err != nil {
		return nil, err
	}
	if err := r("precision", &navMesh.Precision); err != nil {
		return nil, err
	}
	var report reportRecord
	if err := r("report", &report); err != nil {
		return nil, err
	}
	navMesh.Report = report.report()

	vertexCount, err := count("vertex count", binary.Size(math32.Vector3{}))
	if err != nil {
		return nil, err
	}
	navMesh.Vertices = make([]math32.Vector3, vertexCount)
	if err := r("vertices", navMesh.Vertices); err != nil {
		return nil, err
	}

	islandCount, err := count("island count", 4)
	if err != nil {
		return nil, err
	}
	recordSize := binary.Size(polygonRecord{})
	portalSize := binary.Size(Portal{})
	navMesh.Islands = make([][]Polygon, islandCount)
	for i := range navMesh.Islands {
		polyCount, err := count("polygon count", recordSize)
		if err != nil {
			return nil, err
		}
		island := make([]Polygon, polyCount)
		for j := range island {
			var record polygonRecord
			if err := r("polygon", &record); err != nil {
				return nil, err
			}
			if int64(record.Count)*int64(4+portalSize) > int64(buf.Len()) {
				return nil, fmt.Errorf("%w: neighbour count %d exceeds data size", ErrInvalidMesh, record.Count)
			}
			poly := Polygon{
				ID:         record.ID,
				VertexIDs:  record.VertexIDs,
				Centroid:   record.Centroid,
				Normal:     record.Normal,
				Island:     record.Island,
				Neighbours: make([]int32, record.Count),
				Portals:    make([]Portal, record.Count),
			}
			if err := r("neighbours", poly.Neighbours); err != nil {
				return nil, err
			}
			if err := r("portals", poly.Portals); err != nil {
				return nil, err
			}
			island[j] = poly
		}
		navMesh.Islands[i] = island
	}

	if err := navMesh.Validate(); err != nil {
		return nil, err
	}
	return navMesh, nil
}

// Save writes the mesh to filename, gzipped. Files ending in .msgpack use
// the msgpack codec, everything else the binary format.
func Save(navMesh *NavMesh, filename string) error {
	return SaveWithOptions(navMesh, filename, SaveOptions{Gzip: true})
}

// SaveWithOptions is Save with explicit options
func SaveWithOptions(navMesh *NavMesh, filename string, options SaveOptions) error {
	var content []byte
	var err error
	if isMsgpackFile(filename) {
		content, err = EncodeMsgpack(navMesh)
	} else {
		content, err = Encode(navMesh, options.Gzip)
	}
	if err != nil {
		return fmt.Errorf("failed to encode navmesh: %w", err)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Load reads a mesh written by Save
func Load(filename string) (*NavMesh, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if isMsgpackFile(filename) {
		return DecodeMsgpack(content)
	}
	return Decode(content)
}

func isMsgpackFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".msgpack")
}

func isGzip(content []byte) bool {
	return len(content) >= 2 && content[0] == 0x1f && content[1] == 0x8b
}

// Decompress inflates a gzip stream of at most limit bytes
func Decompress(content []byte, limit int64) ([]byte, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gzipReader.Close()

	decompressed, err := io.ReadAll(io.LimitReader(gzipReader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if int64(len(decompressed)) > limit {
		return nil, fmt.Errorf("%w: decompressed data exceeds %d bytes", ErrInvalidMesh, limit)
	}
	return decompressed, nil
}

// Compress gzips content
func Compress(content []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	gzipWriter := gzip.NewWriter(buf)
	if _, err := gzipWriter.Write(content); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildAndSave 构建并保存导航网格（一步到位）
func BuildAndSave(vertices []float32, indices []uint32, settings Settings, filename string) (*NavMesh, error) {
	navMesh, err := NewBuilder(settings).Build(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("failed to build navmesh: %w", err)
	}

	if err := Save(navMesh, filename); err != nil {
		return nil, fmt.Errorf("failed to save navmesh: %w", err)
	}
	return navMesh, nil
}

// GetFileInfo 获取导航文件信息
func GetFileInfo(filename string) (*NavMeshFileInfo, error) {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	navMesh, err := Load(filename)
	if err != nil {
		return nil, err
	}

	version := uint32(NAVMESH_FILE_VERSION)
	if isMsgpackFile(filename) {
		version = MSGPACK_VERSION
	}
	stats := navMesh.GetStats()
	return &NavMeshFileInfo{
		Filename:     filename,
		FileSize:     fileInfo.Size(),
		Version:      version,
		Bounds:       navMesh.Bounds,
		Precision:    navMesh.Precision,
		VertexCount:  stats.VertexCount,
		PolygonCount: stats.PolygonCount,
		IslandCount:  stats.IslandCount,
		DataSize:     stats.DataSize,
		ModTime:      fileInfo.ModTime(),
	}, nil
}

// NavMeshFileInfo 导航文件信息
type NavMeshFileInfo struct {
	Filename     string        `json:"filename"`
	FileSize     int64         `json:"file_size"`
	Version      uint32        `json:"version"`
	Bounds       geometry.AABB `json:"bounds"`
	Precision    int32         `json:"precision"`
	VertexCount  int           `json:"vertex_count"`
	PolygonCount int           `json:"polygon_count"`
	IslandCount  int           `json:"island_count"`
	DataSize     int           `json:"data_size"`
	ModTime      time.Time     `json:"mod_time"`
}
