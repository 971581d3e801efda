package shader

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProgram = `
struct VertexInput {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) uv: vec2f,
};

struct VertexOutput {
    @builtin(position) clip: vec4f,
    @location(0) uv: vec2f,
};

// the block mixes alignments on purpose
struct BeadUniforms {
    transform: mat4x4<f32>,
    cameraPos: vec3f,
    strength: f32,
    lightPos: vec3f,
    useSpecular: u32,
    resolution: vec2f,
};

@group(0) @binding(0) var<uniform> u: BeadUniforms;
@group(1) @binding(0) var sceneTex: texture_2d<f32>;
@group(1) @binding(1) var sceneSampler: sampler;
@group(1) @binding(2) var skybox: texture_cube<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = u.transform * vec4f(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4f {
    return textureSample(sceneTex, sceneSampler, in.uv);
}
`

func TestNewShaderReflectsProgram(t *testing.T) {
	s, err := NewShader("bead", testProgram)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())

	require.Len(t, s.TextureSlots(), 2)
	assert.Equal(t, TextureSlot{Name: "sceneTex", Binding: 0}, s.TextureSlots()[0])
	assert.Equal(t, TextureSlot{Name: "skybox", Binding: 2, Cube: true}, s.TextureSlots()[1])
	assert.Equal(t, []int{1}, s.SamplerBindings())

	uniformGroup := s.BindGroupLayoutDescriptors()[UniformGroup]
	require.Len(t, uniformGroup.Entries, 1)
	assert.True(t, uniformGroup.Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, s.Uniforms().Size(), uniformGroup.Entries[0].Buffer.MinBindingSize)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0][0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0][0].Attributes[2].Format)
}

func TestUniformLayoutFollowsWGSLAlignment(t *testing.T) {
	s := MustShader("bead", testProgram)
	l := s.Uniforms()

	offsets := map[string]uint64{
		"transform":   0,
		"cameraPos":   64,
		"strength":    76, // f32 packs into the vec3 tail
		"lightPos":    80,
		"useSpecular": 92,
		"resolution":  96,
	}
	for name, want := range offsets {
		f, ok := l.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Offset, name)
	}
	assert.Equal(t, uint64(112), l.Size())

	names := make([]string, 0)
	for _, f := range l.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"transform", "cameraPos", "strength", "lightPos", "useSpecular", "resolution"}, names)
}

func TestUniformBlockSet(t *testing.T) {
	block := NewUniformBlock(MustShader("bead", testProgram).Uniforms())

	require.NoError(t, block.Set("strength", float32(0.5)))
	require.NoError(t, block.Set("useSpecular", true))
	require.NoError(t, block.Set("cameraPos", mgl32.Vec3{1, 2, 3}))
	require.NoError(t, block.Set("transform", mgl32.Ident4()))

	data := block.Bytes()
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(data[76:])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[92:]))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(data[68:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[60:])))
}

func TestUniformBlockErrors(t *testing.T) {
	block := NewUniformBlock(MustShader("bead", testProgram).Uniforms())

	assert.ErrorIs(t, block.Set("missing", float32(1)), ErrUnknownUniform)
	assert.ErrorIs(t, block.Set("strength", 1.0), ErrUniformType, "float64 is not f32")
	assert.ErrorIs(t, block.Set("cameraPos", mgl32.Vec4{}), ErrUniformType)
	assert.ErrorIs(t, block.Set("useSpecular", int32(1)), ErrUniformType)
}

func TestNewShaderRejectsBrokenConventions(t *testing.T) {
	_, err := NewShader("no-fragment", `@vertex fn vs() -> @builtin(position) vec4f { return vec4f(0.0); }`)
	assert.ErrorIs(t, err, ErrInvalidShader)

	_, err = NewShader("bad-group", testProgram+"\n@group(2) @binding(0) var extra: texture_2d<f32>;\n")
	assert.ErrorIs(t, err, ErrInvalidShader)

	_, err = NewShader("bad-field", `
struct U { flag: bool, };
@group(0) @binding(0) var<uniform> u: U;
@vertex fn vs() -> @builtin(position) vec4f { return vec4f(0.0); }
@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }
`)
	assert.ErrorIs(t, err, ErrInvalidShader)
}

func TestProgramWithoutUniforms(t *testing.T) {
	s, err := NewShader("plain", `
@vertex fn vs() -> @builtin(position) vec4f { return vec4f(0.0); }
@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }
`)
	require.NoError(t, err)
	assert.Zero(t, s.Uniforms().Size())
	assert.Empty(t, s.TextureSlots())
}
