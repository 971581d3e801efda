// Package mesh builds the indexed triangle geometry the scene draws: the ground plane, the
// light marker sphere, exhibit proxy boxes and quads.
package mesh

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct. It matches Vertex
// exactly (32 bytes). Programs that draw a Mesh prepend it to their source.
//
//go:embed assets/vertex.wgsl
var VertexSource string

// VertexSize is the size of one marshalled Vertex in bytes.
const VertexSize = 32

// Vertex is a single mesh vertex in the layout every mesh program consumes.
type Vertex struct {
	Position [3]float32 // offset  0
	Normal   [3]float32 // offset 12
	TexCoord [2]float32 // offset 24
}

// Marshal serializes the vertex for GPU upload.
//
// Returns:
//   - []byte: a VertexSize-byte little-endian buffer
func (v Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.put(buf)
	return buf
}

func (v Vertex) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.TexCoord[1]))
}

// Geometry is CPU-side indexed triangle-list geometry with counter-clockwise front faces.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// VertexBytes marshals every vertex into one contiguous buffer.
//
// Returns:
//   - []byte: len(Vertices) * VertexSize bytes
func (g Geometry) VertexBytes() []byte {
	buf := make([]byte, len(g.Vertices)*VertexSize)
	for i, v := range g.Vertices {
		v.put(buf[i*VertexSize:])
	}
	return buf
}

// Validate reports whether every index refers to a vertex and the indices form whole triangles.
//
// Returns:
//   - error: a description of the first problem found, or nil
func (g Geometry) Validate() error {
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return fmt.Errorf("empty geometry")
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%d indices is not a whole number of triangles", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return fmt.Errorf("index %d refers to vertex %d of %d", i, idx, len(g.Vertices))
		}
	}
	return nil
}

// Upload validates the geometry and creates a GPU mesh from it.
//
// Parameters:
//   - factory: the resource factory
//   - label: a debug label
//   - g: the geometry
//
// Returns:
//   - renderer.Mesh: the uploaded mesh
//   - error: a validation or upload error
func Upload(factory renderer.ResourceFactory, label string, g Geometry) (renderer.Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %s: %w", label, err)
	}
	return factory.CreateMesh(label, g.VertexBytes(), g.Indices)
}
