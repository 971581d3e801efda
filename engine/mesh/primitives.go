package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// face appends a quad centered at c with outward normal n. u is a unit axis in the face's plane;
// the second axis is n x u so every face winds counter-clockwise seen from outside.
// halfU and halfV are the half extents along the two axes.
func (g *Geometry) face(c, n, u mgl32.Vec3, halfU, halfV, uvRepeat float32) {
	v := n.Cross(u)
	du, dv := u.Mul(halfU), v.Mul(halfV)
	base := uint32(len(g.Vertices))

	corners := [4]struct {
		pos mgl32.Vec3
		uv  [2]float32
	}{
		{c.Sub(du).Sub(dv), [2]float32{0, uvRepeat}},
		{c.Add(du).Sub(dv), [2]float32{uvRepeat, uvRepeat}},
		{c.Add(du).Add(dv), [2]float32{uvRepeat, 0}},
		{c.Sub(du).Add(dv), [2]float32{0, 0}},
	}
	for _, k := range corners {
		g.Vertices = append(g.Vertices, Vertex{
			Position: k.pos,
			Normal:   n,
			TexCoord: k.uv,
		})
	}
	g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Plane returns a square in the XZ plane facing +Y, centered on the origin.
//
// Parameters:
//   - size: the edge length
//   - uvRepeat: how many times texture coordinates repeat across the plane
//
// Returns:
//   - Geometry: 4 vertices, 2 triangles
func Plane(size, uvRepeat float32) Geometry {
	var g Geometry
	g.face(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, size/2, size/2, uvRepeat)
	return g
}

// Quad returns a rectangle in the XY plane facing +Z, centered on the origin.
//
// Parameters:
//   - width: the extent along X
//   - height: the extent along Y
//
// Returns:
//   - Geometry: 4 vertices, 2 triangles
func Quad(width, height float32) Geometry {
	var g Geometry
	g.face(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, width/2, height/2, 1)
	return g
}

// Box returns an axis-aligned box centered on the origin with flat-shaded faces.
//
// Parameters:
//   - half: the half extents along X, Y and Z
//
// Returns:
//   - Geometry: 24 vertices, 12 triangles
func Box(half mgl32.Vec3) Geometry {
	var g Geometry
	faces := []struct {
		n, u         mgl32.Vec3
		halfU, halfV float32
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, half.Z(), half.Y()},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, half.Z(), half.Y()},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, half.X(), half.Z()},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, half.X(), half.Z()},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, half.X(), half.Y()},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, half.X(), half.Y()},
	}
	for _, f := range faces {
		center := mgl32.Vec3{f.n.X() * half.X(), f.n.Y() * half.Y(), f.n.Z() * half.Z()}
		g.face(center, f.n, f.u, f.halfU, f.halfV, 1)
	}
	return g
}

// Sphere returns a UV sphere centered on the origin with smooth normals.
//
// Parameters:
//   - radius: the sphere radius
//   - stacks: latitude bands, at least 2
//   - slices: longitude segments, at least 3
//
// Returns:
//   - Geometry: (stacks+1)*(slices+1) vertices, stacks*slices*2 triangles
func Sphere(radius float32, stacks, slices int) Geometry {
	stacks, slices = max(stacks, 2), max(slices, 3)
	var g Geometry

	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			g.Vertices = append(g.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				TexCoord: [2]float32{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}

	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			c := b + 1
			d := a + 1
			g.Indices = append(g.Indices, a, c, b, a, d, c)
		}
	}
	return g
}
