package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/assets"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pass"
	"github.com/go-gl/mathgl/mgl32"
)

// errMissingPrePass is returned when an enabled exhibit's pre-pass produced nothing.
var errMissingPrePass = errors.New("pre-pass output missing")

// drawExhibit draws one item over the scene so far. scene is the read target's color
// attachment; the pass has already blitted it into the write target.
func (res *resources) drawExhibit(enc pass.Encoder, ctx PassContext, item DrawItem, scene renderer.Texture, out PrePassOutputs) error {
	switch ex := item.Exhibit.(type) {
	case *Bead:
		return res.drawBead(enc, ctx, item.Position, ex, scene)
	case *Mandelbox:
		return res.drawFractal(enc, ctx, item.Position, kindMandelbox, ex.Fractal, scene)
	case *Mandelbulb:
		return res.drawFractal(enc, ctx, item.Position, kindMandelbulb, ex.Fractal, scene)
	case *Sponge:
		return res.drawFractal(enc, ctx, item.Position, kindSponge, ex.Fractal, scene)
	case *Portal:
		if out.Portal == nil {
			return fmt.Errorf("portal: %w", errMissingPrePass)
		}
		return res.drawPortal(enc, ctx, item.Position, ex, out.Portal, scene)
	case *Kaleidoscope:
		if out.Panel == nil {
			return fmt.Errorf("kaleidoscope: %w", errMissingPrePass)
		}
		return res.drawKaleidoscope(enc, ctx, item.Position, ex, out.Panel)
	case *Cloud:
		return res.drawCloud(enc, ctx, item.Position, ex, scene)
	case *Water:
		return res.drawWater(enc, ctx, item.Position, ex, scene)
	default:
		return fmt.Errorf("unknown exhibit %T", item.Exhibit)
	}
}

func (res *resources) drawBead(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, b *Bead, scene renderer.Texture) error {
	p := res.program(assets.ProgramBead)
	if err := setUniforms(p, uniforms{
		"invViewProj": ctx.InverseViewProjection(),
		"cameraPos":   ctx.CameraPos,
		"radius":      b.Radius,
		"center":      pos,
		"ior":         b.IOR,
		"lightPos":    ctx.LightPos,
		"specular":    b.Specular,
		"diffuse":     b.Diffuse,
	}); err != nil {
		return err
	}
	return enc.Draw(p, nil, scene, res.textures.Skybox)
}

func (res *resources) drawFractal(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, kind int32, f Fractal, scene renderer.Texture) error {
	p := res.program(assets.ProgramFractal)
	if err := setUniforms(p, uniforms{
		"invViewProj": ctx.InverseViewProjection(),
		"cameraPos":   ctx.CameraPos,
		"time":        ctx.Time,
		"center":      pos,
		"scale":       f.Scale,
		"lightPos":    ctx.LightPos,
		"kind":        kind,
		"color":       f.Color,
		"iterations":  f.Iterations,
		"power":       f.Power,
		"boundRadius": f.BoundRadius,
	}); err != nil {
		return err
	}
	return enc.Draw(p, nil, scene)
}

func (res *resources) drawPortal(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, pt *Portal, world, scene renderer.Texture) error {
	p := res.program(assets.ProgramPortal)
	if err := setUniforms(p, uniforms{
		"mvp":        ctx.ViewProjection().Mul4(faceCenter(pos, pt.Size)),
		"resolution": ctx.Resolution(),
		"time":       ctx.Time,
		"rim":        pt.Rim,
	}); err != nil {
		return err
	}
	return enc.Draw(p, res.quad, world, scene)
}

func (res *resources) drawKaleidoscope(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, k *Kaleidoscope, panel renderer.Texture) error {
	p := res.program(assets.ProgramKaleidoscope)
	if err := setUniforms(p, uniforms{
		"mvp":      ctx.ViewProjection().Mul4(faceCenter(pos, k.Size)),
		"time":     ctx.Time,
		"segments": k.Segments,
	}); err != nil {
		return err
	}
	return enc.Draw(p, res.quad, panel)
}

func (res *resources) drawCloud(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, c *Cloud, scene renderer.Texture) error {
	p := res.program(assets.ProgramCloud)
	if err := setUniforms(p, uniforms{
		"invViewProj": ctx.InverseViewProjection(),
		"cameraPos":   ctx.CameraPos,
		"time":        ctx.Time,
		"center":      pos,
		"density":     c.Density,
		"obstaclePos": c.ObstaclePos,
		"obstacle":    c.Obstacle,
		"lightPos":    ctx.LightPos,
		"halfSize":    c.HalfSize,
	}); err != nil {
		return err
	}
	return enc.Draw(p, nil, scene)
}

func (res *resources) drawWater(enc pass.Encoder, ctx PassContext, pos mgl32.Vec3, w *Water, scene renderer.Texture) error {
	p := res.program(assets.ProgramWater)
	model := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(w.Size, 1, w.Size))
	if err := setUniforms(p, uniforms{
		"model":      model,
		"viewProj":   ctx.ViewProjection(),
		"cameraPos":  ctx.CameraPos,
		"time":       ctx.Time,
		"resolution": ctx.Resolution(),
		"waveScale":  w.WaveScale,
		"depthTint":  w.DepthTint,
	}); err != nil {
		return err
	}
	return enc.Draw(p, res.plane, scene, res.textures.Skybox)
}
