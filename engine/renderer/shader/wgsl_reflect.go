package shader

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexLayouts turns every pure vertex input struct (all members carry @location, none
// is a @builtin) into a tightly packed buffer layout. Structs with a member that has no
// vertex format are skipped.
//
// Returns:
//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by sequential index, in source order
func (m wgslModule) vertexLayouts() map[int][]wgpu.VertexBufferLayout {
	out := make(map[int][]wgpu.VertexBufferLayout)
	for _, st := range m.structs {
		layout, ok := vertexLayout(st)
		if !ok {
			continue
		}
		out[len(out)] = []wgpu.VertexBufferLayout{layout}
	}
	return out
}

func vertexLayout(st wgslStruct) (wgpu.VertexBufferLayout, bool) {
	if len(st.members) == 0 {
		return wgpu.VertexBufferLayout{}, false
	}
	layout := wgpu.VertexBufferLayout{StepMode: wgpu.VertexStepModeVertex}
	for _, member := range st.members {
		t, known := wgslTypes[canonicalType(member.typeName)]
		if member.builtin || member.location < 0 || !known || t.vertex == wgpu.VertexFormatUndefined {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         t.vertex,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(member.location),
		})
		layout.ArrayStride += t.vsize
	}
	return layout, true
}

// uniformLayout lays out the struct bound as var<uniform> at @group(0) @binding(0) with
// the uniform address space rules. A module without one yields an empty layout.
//
// Returns:
//   - UniformLayout: the block's field layout
//   - error: ErrInvalidShader if the struct is missing or a member type cannot be set from the host
func (m wgslModule) uniformLayout() (UniformLayout, error) {
	res, ok := m.resourceAt(UniformGroup, 0)
	if !ok || res.space != "uniform" {
		return UniformLayout{fields: map[string]UniformField{}}, nil
	}
	st, ok := m.structNamed(res.typeName)
	if !ok {
		return UniformLayout{}, fmt.Errorf("%w: uniform struct %s is not declared", ErrInvalidShader, res.typeName)
	}

	layout := UniformLayout{fields: make(map[string]UniformField, len(st.members))}
	var end uint64
	for _, member := range st.members {
		t, known := wgslTypes[canonicalType(member.typeName)]
		if !known {
			return UniformLayout{}, fmt.Errorf("%w: uniform field %s has unsupported type %s", ErrInvalidShader, member.name, member.typeName)
		}
		offset := alignUp(end, t.align)
		layout.fields[member.name] = UniformField{Name: member.name, Type: t.uniform, Offset: offset, Size: t.size}
		layout.order = append(layout.order, member.name)
		end = offset + t.size
	}
	// every member alignment divides 16, so this also honours the struct alignment
	layout.size = alignUp(end, 16)
	return layout, nil
}

// bindGroupLayouts builds one layout entry per resource, grouped and sorted by binding.
// Resources the engine cannot bind produce an entry with no binding type so the caller
// can reject them.
//
// Parameters:
//   - visibility: the stages every entry is visible to
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding
func (m wgslModule) bindGroupLayouts(visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	for _, res := range m.resources {
		entries[res.group] = append(entries[res.group], resourceEntry(res, visibility))
		if names[res.group] == nil {
			names[res.group] = make(map[int]string)
		}
		names[res.group][res.binding] = res.name
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, list := range entries {
		slices.SortFunc(list, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out, names
}

func resourceEntry(res wgslResource, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: uint32(res.binding), Visibility: visibility}
	switch {
	case res.space == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case res.space != "":
		// storage buffers are not part of the program conventions
	case res.typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	default:
		base, param, _ := templateArgs(res.typeName)
		dim, isTexture := textureDimensions[base]
		sample, isSampled := textureSampleTypes[param]
		if isTexture && isSampled {
			entry.Texture.ViewDimension = dim
			entry.Texture.SampleType = sample
		}
	}
	return entry
}
