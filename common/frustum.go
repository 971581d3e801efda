package common

import "github.com/go-gl/mathgl/mgl32"

// Plane is the plane n.p + d = 0 with a unit normal pointing into the frustum.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns how far p lies on the inside of the plane.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Frustum is the six clip planes of a view-projection matrix.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// NewFrustum extracts the clip planes of a WebGPU view-projection matrix (clip depth in
// [0, 1]) with the Gribb/Hartmann method.
//
// Parameters:
//   - viewProj: projection * view
//
// Returns:
//   - Frustum: the frustum with normalized planes
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	rows := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r2, // z >= 0 rather than z >= -w
		r3.Sub(r2),
	}

	var f Frustum
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f.Planes[i] = Plane{Normal: n.Mul(1 / l), Distance: r.W() / l}
	}
	return f
}

// SphereVisible reports whether any part of a sphere lies inside the frustum.
func (f Frustum) SphereVisible(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}
