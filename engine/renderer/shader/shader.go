package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group convention shared by every program in the engine:
//
//	@group(0) @binding(0) var<uniform> u: SomeUniforms;  (one block, dynamic offset)
//	@group(1) @binding(N) var name: texture_2d<f32> / texture_cube<f32> / sampler;
//
// Textures in group 1 are bound by slot, where slot k is the k-th texture binding in
// ascending binding order. Samplers in group 1 are filled by the renderer.
const (
	UniformGroup = 0
	TextureGroup = 1
)

// ErrInvalidShader is returned when WGSL source does not follow the program conventions.
var ErrInvalidShader = errors.New("invalid shader")

// TextureSlot describes one sampled texture binding of a program.
type TextureSlot struct {
	// Name is the WGSL variable name.
	Name string
	// Binding is the binding index within TextureGroup.
	Binding int
	// Cube is true for texture_cube bindings.
	Cube bool
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and uniform encoding.
type shader struct {
	key                        string
	source                     string
	vertexEntry                string
	fragmentEntry              string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	uniforms                   UniformLayout
	textures                   []TextureSlot
	samplers                   []int
}

// Shader defines the interface for a parsed WGSL program containing both a vertex and a
// fragment entry point. It exposes what the renderer needs to build a pipeline and what
// callers need to set uniforms by name and bind textures by slot.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	// The uniform binding in UniformGroup is marked with a dynamic offset.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// VertexLayouts retrieves all vertex buffer layouts parsed from vertex input structs.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: vertex layouts keyed by sequential index
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// Uniforms returns the layout of the program's uniform block. Programs without a
	// uniform block return an empty layout.
	//
	// Returns:
	//   - UniformLayout: the uniform block layout
	Uniforms() UniformLayout

	// TextureSlots returns the program's sampled textures in slot order.
	//
	// Returns:
	//   - []TextureSlot: texture bindings sorted by binding index
	TextureSlots() []TextureSlot

	// SamplerBindings returns the sampler binding indices in TextureGroup.
	//
	// Returns:
	//   - []int: sampler bindings sorted ascending
	SamplerBindings() []int
}

var _ Shader = &shader{}

// NewShader parses WGSL source into a Shader. Parsing is where a malformed program fails,
// so callers treat the returned error as an initialization failure.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - source: the WGSL source containing one @vertex and one @fragment function
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrInvalidShader wrapped with details if the source breaks the conventions
func NewShader(key, source string) (Shader, error) {
	s := &shader{
		key:    key,
		source: source,
	}
	if err := s.parse(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// MustShader is NewShader for embedded sources that are known to be valid; it panics on error.
func MustShader(key, source string) Shader {
	s, err := NewShader(key, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Uniforms() UniformLayout {
	return s.uniforms
}

func (s *shader) TextureSlots() []TextureSlot {
	return s.textures
}

func (s *shader) SamplerBindings() []int {
	return s.samplers
}

// parse extracts entry points, vertex layouts, bind group layouts, the uniform block layout
// and texture slots from the source.
func (s *shader) parse() error {
	m := scanModule(s.source)
	s.vertexEntry = m.vertexEntry
	s.fragmentEntry = m.fragmentEntry
	if s.vertexEntry == "" || s.fragmentEntry == "" {
		return fmt.Errorf("%w: both @vertex and @fragment entry points are required", ErrInvalidShader)
	}

	uniforms, err := m.uniformLayout()
	if err != nil {
		return err
	}
	s.uniforms = uniforms
	s.vertexLayouts = m.vertexLayouts()
	s.bindGroupLayoutDescriptors, s.bindingVarNames = m.bindGroupLayouts(wgpu.ShaderStageVertex | wgpu.ShaderStageFragment)

	for g, desc := range s.bindGroupLayoutDescriptors {
		if g != UniformGroup && g != TextureGroup {
			return fmt.Errorf("%w: bind group %d is outside the uniform/texture convention", ErrInvalidShader, g)
		}
		for i, entry := range desc.Entries {
			if g == UniformGroup {
				if entry.Binding != 0 || entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
					return fmt.Errorf("%w: group %d may only hold a uniform block at binding 0", ErrInvalidShader, g)
				}
				desc.Entries[i].Buffer.HasDynamicOffset = true
				desc.Entries[i].Buffer.MinBindingSize = s.uniforms.Size()
				continue
			}
			switch {
			case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
				s.textures = append(s.textures, TextureSlot{
					Name:    s.bindingVarNames[g][int(entry.Binding)],
					Binding: int(entry.Binding),
					Cube:    entry.Texture.ViewDimension == wgpu.TextureViewDimensionCube,
				})
			case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
				s.samplers = append(s.samplers, int(entry.Binding))
			default:
				return fmt.Errorf("%w: group %d binding %d must be a texture or sampler", ErrInvalidShader, g, entry.Binding)
			}
		}
	}
	// entries are already sorted by binding within the group
	return nil
}
