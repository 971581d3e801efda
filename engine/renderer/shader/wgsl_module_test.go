package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	src := "a // tail\nb /* one /* nested */ still */ c\n// last"
	assert.Equal(t, "a \nb   c\n", stripComments(src))
}

func TestCanonicalType(t *testing.T) {
	cases := map[string]string{
		"vec3<f32>":     "vec3f",
		"vec2< i32 >":   "vec2i",
		"mat4x4<f32>":   "mat4x4f",
		"f32":           "f32",
		"array<f32, 4>": "array<f32,4>",
	}
	for in, want := range cases {
		assert.Equal(t, want, canonicalType(in), in)
	}
}

func TestScanModuleSkipsCommentedDeclarations(t *testing.T) {
	m := scanModule(`
// @group(1) @binding(3) var dead: texture_2d<f32>;
/* struct Ghost { x: f32, }; */
struct Pair { @location(0) a: vec2<f32>, @location(1) b: array<u32, 2>, };
@group(1) @binding(0) var tex: texture_2d<f32>;
@vertex fn vs() -> @builtin(position) vec4f { return vec4f(0.0); }
`)
	assert.Equal(t, "vs", m.vertexEntry)
	assert.Empty(t, m.fragmentEntry)

	require.Len(t, m.structs, 1)
	require.Len(t, m.structs[0].members, 2)
	assert.Equal(t, "array<u32, 2>", m.structs[0].members[1].typeName)
	assert.Equal(t, 1, m.structs[0].members[1].location)

	require.Len(t, m.resources, 1)
	assert.Equal(t, "tex", m.resources[0].name)

	// the array member has no vertex format, so no layout is produced
	assert.Empty(t, m.vertexLayouts())
}

func TestResourceEntryRejectsUnknownBindings(t *testing.T) {
	vis := wgpu.ShaderStageFragment
	storage := resourceEntry(wgslResource{space: "storage", typeName: "array<f32>"}, vis)
	assert.Equal(t, wgpu.BufferBindingTypeUndefined, storage.Buffer.Type)

	depth := resourceEntry(wgslResource{typeName: "texture_depth_2d"}, vis)
	assert.Equal(t, wgpu.TextureSampleTypeUndefined, depth.Texture.SampleType)

	cube := resourceEntry(wgslResource{typeName: "texture_cube<f32>"}, vis)
	assert.Equal(t, wgpu.TextureViewDimensionCube, cube.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, cube.Texture.SampleType)
}
