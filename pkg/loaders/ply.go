package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrInvalidPLY is returned for malformed or unsupported PLY data
var ErrInvalidPLY = errors.New("invalid PLY data")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// element returns the named element, or nil
func (h *PLYHeader) element(name string) *PLYElement {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// LoadPLY loads a PLY file as an indexed triangle mesh
func LoadPLY(filename string) (geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY parses PLY data in any of the three standard encodings. Polygons
// are fanned into triangles. Vertex normals are kept only when every vertex
// has a usable one.
func ReadPLY(r io.Reader) (geometry.Mesh, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	header, err := parsePLYHeader(br)
	if err != nil {
		return geometry.Mesh{}, err
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: br, order: binary.BigEndian}
	default:
		return geometry.Mesh{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	var mesh geometry.Mesh
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, &mesh)
		case "face":
			err = readFaces(values, element, &mesh)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return geometry.Mesh{}, fmt.Errorf("%w: %s: %w", ErrInvalidPLY, element.Name, err)
		}
	}

	for _, idx := range mesh.Faces {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return geometry.Mesh{}, fmt.Errorf("%w: face index %d out of range", ErrInvalidPLY, idx)
		}
	}
	return mesh, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(br *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		raw, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || raw == "") {
			return nil, fmt.Errorf("%w: header ended early: %w", ErrInvalidPLY, err)
		}
		line := strings.TrimSpace(raw)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrInvalidPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Props = append(last.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrInvalidPLY, parts[0])
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("%w: missing format line", ErrInvalidPLY)
	}
	for _, element := range header.Elements {
		if element.Count > 0 && len(element.Props) == 0 {
			return nil, fmt.Errorf("%w: element %s has %d rows but no properties", ErrInvalidPLY, element.Name, element.Count)
		}
	}
	return header, nil
}

// maxPreallocRows bounds the capacity reserved from a header count; larger
// meshes grow by append as rows are actually read
const maxPreallocRows = 1 << 16

func preallocRows(count int) int {
	return min(count, maxPreallocRows)
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	var prop PLYProperty
	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		prop = PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unsupported list types %s/%s", ErrInvalidPLY, prop.ListType, prop.DataType)
		}
		return prop, nil
	}

	prop = PLYProperty{Type: parts[0], Name: parts[1]}
	if getTypeSize(prop.Type) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unsupported data type %s", ErrInvalidPLY, prop.Type)
	}
	return prop, nil
}

// readVertices fills mesh.Vertices and, when x/y/z normals are declared, mesh.Normals
func readVertices(values plyValueReader, element PLYElement, mesh *geometry.Mesh) error {
	index := map[string]int{}
	for i, prop := range element.Props {
		index[prop.Name] = i
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("missing %s property", name)
		}
	}
	_, hasNX := index["nx"]
	_, hasNY := index["ny"]
	_, hasNZ := index["nz"]
	hasNormals := hasNX && hasNY && hasNZ

	mesh.Vertices = make([]core.Tuple, 0, preallocRows(element.Count))
	if hasNormals {
		mesh.Normals = make([]core.Tuple, 0, preallocRows(element.Count))
	}

	row := make([]float64, len(element.Props))
	for v := range element.Count {
		for i, prop := range element.Props {
			val, err := readProperty(values, prop)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = val
		}
		mesh.Vertices = append(mesh.Vertices, core.Point(row[index["x"]], row[index["y"]], row[index["z"]]))
		if hasNormals {
			n := core.Vector(row[index["nx"]], row[index["ny"]], row[index["nz"]])
			if n.Magnitude() < core.Epsilon {
				hasNormals = false
				mesh.Normals = nil
				continue
			}
			mesh.Normals = append(mesh.Normals, n)
		}
	}
	return nil
}

// readProperty reads a scalar property, or consumes a list and returns its length
func readProperty(values plyValueReader, prop PLYProperty) (float64, error) {
	if !prop.IsList {
		return values.read(prop.Type)
	}
	n, err := values.read(prop.ListType)
	if err != nil {
		return 0, err
	}
	for range int(n) {
		if _, err := values.read(prop.DataType); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// readFaces fans each polygon of the vertex_indices list into triangles
func readFaces(values plyValueReader, element PLYElement, mesh *geometry.Mesh) error {
	mesh.Faces = make([]int, 0, preallocRows(element.Count)*3)
	polygon := make([]int, 0, 4)

	for f := range element.Count {
		for _, prop := range element.Props {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if _, err := readProperty(values, prop); err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			if count < 3 {
				return fmt.Errorf("face %d has %v vertices", f, count)
			}
			polygon = polygon[:0]
			for range int(count) {
				idx, err := values.read(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				polygon = append(polygon, int(idx))
			}
			for k := 1; k+1 < len(polygon); k++ {
				mesh.Faces = append(mesh.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}
	return nil
}

// skipElement consumes every row of an element the mesh does not use
func skipElement(values plyValueReader, element PLYElement) error {
	for range element.Count {
		for _, prop := range element.Props {
			if _, err := readProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader reads the next value of the given PLY type as a float64
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (r *asciiValueReader) read(string) (float64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(r.scanner.Text(), 64)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (r *binaryValueReader) read(dataType string) (float64, error) {
	buf := r.buf[:getTypeSize(dataType)]
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return 0, err
	}
	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(buf))), nil
	case "double", "float64":
		return math.Float64frombits(r.order.Uint64(buf)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(buf)), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(buf)), nil
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	}
	return 0, fmt.Errorf("unsupported data type %q", dataType)
}
