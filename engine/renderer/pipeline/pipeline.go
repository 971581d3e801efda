package pipeline

import (
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It pairs a parsed shader with the fixed-function State it is compiled for.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, derived from the shader key and state
	pipelineKey string

	shader shader.Shader
	state  State

	// renderPipeline is populated by the backend once the GPU object exists
	renderPipeline *wgpu.RenderPipeline
}

// Pipeline defines the interface for one GPU render pipeline. A program drawn into targets of
// different formats, or under different depth functions, owns one Pipeline per combination.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the parsed program this pipeline compiles.
	//
	// Returns:
	//   - shader.Shader: the program's shader
	Shader() shader.Shader

	// State returns the fixed-function state this pipeline is compiled for.
	//
	// Returns:
	//   - State: the pipeline state
	State() State

	// RenderPipeline returns the underlying GPU pipeline, or nil if it has not been created yet.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline for a shader and state.
// The key is derived from both so identical combinations share a cache entry. Every
// pipeline draws indexed triangle lists with counter-clockwise front faces; anything that
// varies between pipelines belongs in State so it reaches the key.
//
// Parameters:
//   - s: the parsed program
//   - state: the fixed-function state
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(s shader.Shader, state State) Pipeline {
	return &pipeline{
		pipelineKey: state.Key(s.Key()),
		shader:      s,
		state:       state,
	}
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) State() State {
	return p.state
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
