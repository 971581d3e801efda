// Package assets holds the scene's embedded WGSL programs and loads its textures.
package assets

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/mesh"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// Program keys.
const (
	ProgramBlit         = "blit"
	ProgramGround       = "ground"
	ProgramSolid        = "solid"
	ProgramSkybox       = "skybox"
	ProgramBead         = "bead"
	ProgramFractal      = "fractal"
	ProgramCloud        = "cloud"
	ProgramPanel        = "panel"
	ProgramPortal       = "portal"
	ProgramKaleidoscope = "kaleidoscope"
	ProgramWater        = "water"
)

// vertexStage selects the snippet a program's source is prefixed with.
type vertexStage int

const (
	// stageOwn programs declare their own vertex stage and need no vertex buffer
	stageOwn vertexStage = iota
	// stageFullscreen programs use the shared full-screen triangle
	stageFullscreen
	// stageMesh programs read the engine vertex layout
	stageMesh
)

type programSpec struct {
	key    string
	stage  vertexStage
	raster pipeline.Raster
}

var programSpecs = []programSpec{
	{ProgramBlit, stageFullscreen, pipeline.Raster{DepthReadOnly: true}},
	{ProgramGround, stageMesh, pipeline.Raster{}},
	{ProgramSolid, stageMesh, pipeline.Raster{Cull: pipeline.CullBack}},
	{ProgramSkybox, stageOwn, pipeline.Raster{DepthReadOnly: true}},
	{ProgramBead, stageFullscreen, pipeline.Raster{DepthReadOnly: true}},
	{ProgramFractal, stageFullscreen, pipeline.Raster{DepthReadOnly: true}},
	{ProgramCloud, stageFullscreen, pipeline.Raster{DepthReadOnly: true}},
	{ProgramPanel, stageFullscreen, pipeline.Raster{DepthReadOnly: true}},
	{ProgramPortal, stageMesh, pipeline.Raster{}},
	{ProgramKaleidoscope, stageMesh, pipeline.Raster{Blend: pipeline.BlendAlpha, DepthReadOnly: true}},
	{ProgramWater, stageMesh, pipeline.Raster{}},
}

// ProgramKeys returns the key of every embedded program.
//
// Returns:
//   - []string: the keys in a fixed order
func ProgramKeys() []string {
	keys := make([]string, len(programSpecs))
	for i, s := range programSpecs {
		keys[i] = s.key
	}
	return keys
}

// ProgramDescriptor returns the complete descriptor for an embedded program.
//
// Parameters:
//   - key: the program key
//
// Returns:
//   - renderer.ProgramDescriptor: the descriptor with its full WGSL source
//   - error: an error if no program has the key
func ProgramDescriptor(key string) (renderer.ProgramDescriptor, error) {
	for _, s := range programSpecs {
		if s.key != key {
			continue
		}
		body, err := shaderFS.ReadFile("shaders/" + key + ".wgsl")
		if err != nil {
			return renderer.ProgramDescriptor{}, fmt.Errorf("program %s: %w", key, err)
		}

		source := string(body)
		switch s.stage {
		case stageFullscreen:
			prefix, err := shaderFS.ReadFile("shaders/fullscreen.wgsl")
			if err != nil {
				return renderer.ProgramDescriptor{}, fmt.Errorf("program %s: %w", key, err)
			}
			source = string(prefix) + "\n" + source
		case stageMesh:
			source = mesh.VertexSource + "\n" + source
		}
		return renderer.ProgramDescriptor{Key: key, Source: source, Raster: s.raster}, nil
	}
	return renderer.ProgramDescriptor{}, fmt.Errorf("unknown program %q", key)
}

// CreatePrograms compiles every embedded program.
//
// Parameters:
//   - factory: the resource factory
//
// Returns:
//   - map[string]renderer.Program: the programs by key
//   - error: the first compilation error; programs created before it are released
func CreatePrograms(factory renderer.ResourceFactory) (map[string]renderer.Program, error) {
	programs := make(map[string]renderer.Program, len(programSpecs))
	release := func() {
		for _, p := range programs {
			p.Release()
		}
	}

	for _, s := range programSpecs {
		desc, err := ProgramDescriptor(s.key)
		if err != nil {
			release()
			return nil, err
		}
		p, err := factory.CreateProgram(desc)
		if err != nil {
			release()
			return nil, fmt.Errorf("program %s: %w", s.key, err)
		}
		programs[s.key] = p
	}
	return programs, nil
}
