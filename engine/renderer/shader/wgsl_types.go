package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslType is what reflection knows about one host-shareable WGSL type: its uniform
// buffer layout, the uniform kind callers set it with, and the vertex format it reads as.
// Types that cannot feed a vertex attribute carry wgpu.VertexFormatUndefined.
type wgslType struct {
	size    uint64
	align   uint64
	uniform UniformType
	vertex  wgpu.VertexFormat
	vsize   uint64
}

// wgslTypes is keyed by the predeclared alias spelling, see canonicalType. WGSL has no
// host-shareable bool, so boolean uniforms are declared u32 or i32 and accept Go bool values.
var wgslTypes = map[string]wgslType{
	"f32":     {size: 4, align: 4, uniform: UniformFloat, vertex: wgpu.VertexFormatFloat32, vsize: 4},
	"i32":     {size: 4, align: 4, uniform: UniformInt, vertex: wgpu.VertexFormatSint32, vsize: 4},
	"u32":     {size: 4, align: 4, uniform: UniformUint, vertex: wgpu.VertexFormatUint32, vsize: 4},
	"vec2f":   {size: 8, align: 8, uniform: UniformVec2, vertex: wgpu.VertexFormatFloat32x2, vsize: 8},
	"vec3f":   {size: 12, align: 16, uniform: UniformVec3, vertex: wgpu.VertexFormatFloat32x3, vsize: 12},
	"vec4f":   {size: 16, align: 16, uniform: UniformVec4, vertex: wgpu.VertexFormatFloat32x4, vsize: 16},
	"vec2i":   {size: 8, align: 8, uniform: UniformIVec2, vertex: wgpu.VertexFormatSint32x2, vsize: 8},
	"vec4i":   {size: 16, align: 16, uniform: UniformIVec4, vertex: wgpu.VertexFormatSint32x4, vsize: 16},
	"mat4x4f": {size: 64, align: 16, uniform: UniformMat4, vertex: wgpu.VertexFormatUndefined},
}

// textureDimensions lists the sampled texture kinds programs may bind.
var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":   wgpu.TextureViewDimension2D,
	"texture_cube": wgpu.TextureViewDimensionCube,
}

var textureSampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// canonicalType folds the templated spelling of a vector or matrix type into its alias,
// so vec3<f32> and vec3f both become vec3f. Whitespace is dropped.
func canonicalType(t string) string {
	t = strings.Join(strings.Fields(t), "")
	base, param, ok := templateArgs(t)
	if !ok || !strings.HasPrefix(base, "vec") && !strings.HasPrefix(base, "mat") {
		return t
	}
	switch param {
	case "f32":
		return base + "f"
	case "i32":
		return base + "i"
	case "u32":
		return base + "u"
	case "f16":
		return base + "h"
	}
	return t
}

// templateArgs splits name<args> into name and args.
func templateArgs(t string) (base, args string, ok bool) {
	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return t, "", false
	}
	return strings.TrimSpace(t[:open]), strings.TrimSpace(t[open+1 : len(t)-1]), true
}

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	return (n + align - 1) / align * align
}
