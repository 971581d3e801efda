package bind_group_provider

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// textureBindGroup is one cached texture bind group and the texture ids it references.
type textureBindGroup struct {
	ids       []uint64
	bindGroup *wgpu.BindGroup
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu *sync.Mutex

	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by the renderer backend when a program is created, not by user-creation.

	// bindGroupLayouts holds the layout per bind group index.
	bindGroupLayouts map[int]*wgpu.BindGroupLayout
	// uniformBindGroup binds the frame's uniform arena with a dynamic offset.
	uniformBindGroup *wgpu.BindGroup
	// samplers holds the samplers of the texture group, keyed by binding index.
	samplers map[int]*wgpu.Sampler
	// textureBindGroups caches texture group bind groups keyed by the bound texture ids.
	textureBindGroups map[string]textureBindGroup
}

// BindGroupProvider holds the GPU binding resources of one program: its bind group layouts,
// the bind group for its uniform block, and a cache of texture bind groups keyed by which
// textures are bound. Textures are identified by id so that a bind group referencing a
// released texture can be dropped with ForgetTexture.
//
// Usage pattern:
//  1. The backend parses a program and creates a provider for it
//  2. The backend stores the created layouts, uniform bind group and samplers on the provider
//  3. Each draw looks up TextureBindGroup for its texture set, creating and storing it on a miss
//  4. Releasing a texture calls ForgetTexture on every provider
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	Release()

	// Label returns the debug label for this provider.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroupLayout returns the layout created for a bind group index, or nil if none exists.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayouts returns the layouts ordered by group index, suitable for a pipeline layout.
	// Missing groups below the highest index are returned as nil.
	//
	// Returns:
	//   - []*wgpu.BindGroupLayout: the ordered layouts
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// SetBindGroupLayout stores the layout for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//   - bgl: the created bind group layout
	SetBindGroupLayout(group int, bgl *wgpu.BindGroupLayout)

	// UniformBindGroup returns the bind group of the uniform block, or nil if none exists.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	UniformBindGroup() *wgpu.BindGroup

	// SetUniformBindGroup stores the bind group of the uniform block.
	//
	// Parameters:
	//   - bg: the created bind group
	SetUniformBindGroup(bg *wgpu.BindGroup)

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores a GPU sampler for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// TextureBindGroup looks up the cached bind group for a texture set.
	//
	// Parameters:
	//   - ids: the ids of the bound textures in slot order
	//
	// Returns:
	//   - *wgpu.BindGroup: the cached bind group
	//   - bool: false on a cache miss
	TextureBindGroup(ids []uint64) (*wgpu.BindGroup, bool)

	// SetTextureBindGroup caches the bind group for a texture set, releasing any group it replaces.
	//
	// Parameters:
	//   - ids: the ids of the bound textures in slot order
	//   - bg: the created bind group
	SetTextureBindGroup(ids []uint64, bg *wgpu.BindGroup)

	// ForgetTexture releases and drops every cached texture bind group that references a texture.
	//
	// Parameters:
	//   - id: the released texture's id
	//
	// Returns:
	//   - int: the number of bind groups dropped
	ForgetTexture(id uint64) int

	// CachedTextureBindGroups returns the number of cached texture bind groups.
	//
	// Returns:
	//   - int: the cache size
	CachedTextureBindGroups() int
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label, usually the program key
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		mu:                &sync.Mutex{},
		label:             label,
		bindGroupLayouts:  make(map[int]*wgpu.BindGroupLayout),
		samplers:          make(map[int]*wgpu.Sampler),
		textureBindGroups: make(map[string]textureBindGroup),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// textureSetKey joins texture ids into a cache key.
func textureSetKey(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroupLayouts[group]
}

func (p *bindGroupProvider) BindGroupLayouts() []*wgpu.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()

	maxGroup := -1
	for g := range p.bindGroupLayouts {
		maxGroup = max(maxGroup, g)
	}
	layouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, l := range p.bindGroupLayouts {
		layouts[g] = l
	}
	return layouts
}

func (p *bindGroupProvider) SetBindGroupLayout(group int, bgl *wgpu.BindGroupLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroupLayouts[group] = bgl
}

func (p *bindGroupProvider) UniformBindGroup() *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uniformBindGroup
}

func (p *bindGroupProvider) SetUniformBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uniformBindGroup = bg
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samplers[binding] = s
}

func (p *bindGroupProvider) TextureBindGroup(ids []uint64) (*wgpu.BindGroup, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.textureBindGroups[textureSetKey(ids)]
	return entry.bindGroup, ok
}

func (p *bindGroupProvider) SetTextureBindGroup(ids []uint64, bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := textureSetKey(ids)
	if old, ok := p.textureBindGroups[key]; ok && old.bindGroup != nil && old.bindGroup != bg {
		old.bindGroup.Release()
	}
	p.textureBindGroups[key] = textureBindGroup{ids: slices.Clone(ids), bindGroup: bg}
}

func (p *bindGroupProvider) ForgetTexture(id uint64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	dropped := 0
	for key, entry := range p.textureBindGroups {
		if !slices.Contains(entry.ids, id) {
			continue
		}
		if entry.bindGroup != nil {
			entry.bindGroup.Release()
		}
		delete(p.textureBindGroups, key)
		dropped++
	}
	return dropped
}

func (p *bindGroupProvider) CachedTextureBindGroups() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.textureBindGroups)
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, entry := range p.textureBindGroups {
		if entry.bindGroup != nil {
			entry.bindGroup.Release()
		}
		delete(p.textureBindGroups, key)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	if p.uniformBindGroup != nil {
		p.uniformBindGroup.Release()
		p.uniformBindGroup = nil
	}
	for g, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
		delete(p.bindGroupLayouts, g)
	}
}
