package frame

import (
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	groundAmbient = 0.15
	markerScale   = 0.1
)

// Environment is the always-present backdrop: the ground, the light marker and the sky.
type Environment struct {
	Ground     renderer.Program
	Solid      renderer.Program
	Skybox     renderer.Program
	GroundMesh renderer.Mesh
	Marker     renderer.Mesh
	Albedo     renderer.Texture
	Normal     renderer.Texture
	Sky        renderer.Texture
}

// DrawEnvironment draws the normal-mapped ground, the unlit light marker and then the sky.
// The sky sits on the far plane and is drawn with a less-or-equal depth test so it only
// fills pixels nothing else covered; the previous depth test is restored afterwards.
//
// Parameters:
//   - enc: the encoder of the pass writing the first chain target
//   - ctx: the frame's pass context
//   - env: the programs, meshes and textures to draw
//
// Returns:
//   - error: the first uniform or draw error
func DrawEnvironment(enc pass.Encoder, ctx PassContext, env Environment) error {
	viewProj := ctx.ViewProjection()

	if err := setUniforms(env.Ground, uniforms{
		"model":     mgl32.Ident4(),
		"viewProj":  viewProj,
		"lightPos":  ctx.LightPos,
		"ambient":   float32(groundAmbient),
		"cameraPos": ctx.CameraPos,
	}); err != nil {
		return err
	}
	if err := enc.Draw(env.Ground, env.GroundMesh, env.Albedo, env.Normal); err != nil {
		return err
	}

	model := mgl32.Translate3D(ctx.LightPos.X(), ctx.LightPos.Y(), ctx.LightPos.Z()).
		Mul4(mgl32.Scale3D(markerScale, markerScale, markerScale))
	if err := setUniforms(env.Solid, uniforms{
		"mvp":      viewProj.Mul4(model),
		"model":    model,
		"color":    mgl32.Vec4{1, 1, 1, 1},
		"lightPos": ctx.LightPos,
		"unlit":    true,
	}); err != nil {
		return err
	}
	if err := enc.Draw(env.Solid, env.Marker); err != nil {
		return err
	}

	return drawSky(enc, ctx, env.Skybox, env.Sky)
}

// drawSky draws a cube map behind everything already in the pass.
func drawSky(enc pass.Encoder, ctx PassContext, program renderer.Program, sky renderer.Texture) error {
	if err := program.SetUniform("invViewProj", ctx.SkyInverseViewProjection()); err != nil {
		return err
	}
	return enc.WithDepthFunc(pipeline.DepthLessEqual, func(enc pass.Encoder) error {
		return enc.Draw(program, nil, sky)
	})
}
