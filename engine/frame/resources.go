package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/assets"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/mesh"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// resources are the programs, meshes and textures created once at start-up and shared by
// every pass.
type resources struct {
	programs map[string]renderer.Program
	textures *assets.SceneTextures

	ground renderer.Mesh
	sphere renderer.Mesh
	box    renderer.Mesh
	quad   renderer.Mesh
	plane  renderer.Mesh
}

func newResources(factory renderer.ResourceFactory, cfg config.Config, workers int) (*resources, error) {
	res := &resources{}
	fail := func(err error) (*resources, error) {
		res.Release()
		return nil, err
	}

	var err error
	if res.programs, err = assets.CreatePrograms(factory); err != nil {
		return fail(err)
	}
	if res.textures, err = assets.LoadSceneTextures(factory, cfg.Assets, workers); err != nil {
		return fail(err)
	}

	meshes := []struct {
		dst   *renderer.Mesh
		label string
		geom  mesh.Geometry
	}{
		{&res.ground, "ground", mesh.Plane(cfg.Camera.MapSize, cfg.Camera.MapSize/2)},
		{&res.sphere, "sphere", mesh.Sphere(1, 16, 24)},
		{&res.box, "box", mesh.Box(mgl32.Vec3{0.5, 0.5, 0.5})},
		{&res.quad, "quad", mesh.Quad(1, 1)},
		{&res.plane, "plane", mesh.Plane(1, 1)},
	}
	for _, m := range meshes {
		if *m.dst, err = mesh.Upload(factory, m.label, m.geom); err != nil {
			return fail(err)
		}
	}
	return res, nil
}

// program returns a program by key. Every key in assets.ProgramKeys exists after
// newResources succeeds.
func (res *resources) program(key string) renderer.Program {
	return res.programs[key]
}

// environment gathers what DrawEnvironment draws.
func (res *resources) environment() Environment {
	return Environment{
		Ground:     res.program(assets.ProgramGround),
		Solid:      res.program(assets.ProgramSolid),
		Skybox:     res.program(assets.ProgramSkybox),
		GroundMesh: res.ground,
		Marker:     res.sphere,
		Albedo:     res.textures.GroundAlbedo,
		Normal:     res.textures.GroundNormal,
		Sky:        res.textures.Skybox,
	}
}

// Release frees everything created so far.
func (res *resources) Release() {
	for _, p := range res.programs {
		p.Release()
	}
	res.programs = nil
	if res.textures != nil {
		res.textures.Release()
		res.textures = nil
	}
	for _, m := range []*renderer.Mesh{&res.ground, &res.sphere, &res.box, &res.quad, &res.plane} {
		if *m != nil {
			(*m).Release()
			*m = nil
		}
	}
}

// uniforms are named values for one program.
type uniforms map[string]any

// setUniforms applies every value, reporting all failures together.
func setUniforms(p renderer.Program, values uniforms) error {
	var errs []error
	for name, v := range values {
		if err := p.SetUniform(name, v); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("program %s: %w", p.Key(), errors.Join(errs...))
	}
	return nil
}
