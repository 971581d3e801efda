package frame

import (
	"math"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/go-gl/mathgl/mgl32"
)

// Exhibit is one of the scene's order-sensitive effects. The set of variants is closed:
// Bead, Mandelbox, Mandelbulb, Sponge, Portal, Kaleidoscope, Cloud and Water. Each exhibit
// pass dispatches on the variant with a type switch.
type Exhibit interface {
	// Name returns the exhibit's registry name, as used by the disabled list in the config.
	//
	// Returns:
	//   - string: the name
	Name() string

	exhibit()
}

// Bead is a refractive glass sphere reflecting the sky and refracting the scene behind it.
type Bead struct {
	Radius   float32
	IOR      float32
	Specular bool
	Diffuse  bool
}

// Fractal holds the parameters shared by the raymarched fractals.
type Fractal struct {
	// Scale maps world units into fractal space.
	Scale float32
	// Power is the box fold scale for the Mandelbox and the exponent for the Mandelbulb.
	Power       float32
	Iterations  int32
	BoundRadius float32
	Color       mgl32.Vec4
}

// Mandelbox is a raymarched Mandelbox fractal.
type Mandelbox struct{ Fractal }

// Mandelbulb is a raymarched Mandelbulb fractal.
type Mandelbulb struct{ Fractal }

// Sponge is a raymarched Menger sponge.
type Sponge struct{ Fractal }

// Portal is a disc looking into another skybox world, seen from the viewer's side.
type Portal struct {
	Size float32
	Rim  float32
}

// Kaleidoscope mirrors the generative panel into a rotating multi-segment pattern.
type Kaleidoscope struct {
	Size     float32
	Segments float32
}

// Cloud is a raymarched volumetric cloud with an optional spherical obstacle inside it.
type Cloud struct {
	HalfSize    float32
	Density     float32
	Obstacle    bool
	ObstaclePos mgl32.Vec3
}

// Water is an animated water surface refracting the scene below it.
type Water struct {
	Size      float32
	WaveScale float32
	DepthTint float32
}

func (*Bead) Name() string         { return "bead" }
func (*Mandelbox) Name() string    { return "mandelbox" }
func (*Mandelbulb) Name() string   { return "mandelbulb" }
func (*Sponge) Name() string       { return "sponge" }
func (*Portal) Name() string       { return "portal" }
func (*Kaleidoscope) Name() string { return "kaleidoscope" }
func (*Cloud) Name() string        { return "cloud" }
func (*Water) Name() string        { return "water" }

func (*Bead) exhibit()         {}
func (*Mandelbox) exhibit()    {}
func (*Mandelbulb) exhibit()   {}
func (*Sponge) exhibit()       {}
func (*Portal) exhibit()       {}
func (*Kaleidoscope) exhibit() {}
func (*Cloud) exhibit()        {}
func (*Water) exhibit()        {}

// fractal kinds as understood by the fractal program
const (
	kindMandelbox int32 = iota
	kindMandelbulb
	kindSponge
)

// DrawItem is one registry entry: an exhibit, where it stands, and its distance to the
// camera as of the last sort.
type DrawItem struct {
	Exhibit  Exhibit
	Position mgl32.Vec3
	Distance float32
	Enabled  bool
}

// NewRegistry returns the scene's fixed exhibit registry in key order (F1 toggles the first
// entry). Positions and initial toggles come from cfg.
//
// Parameters:
//   - cfg: the scene configuration
//
// Returns:
//   - []DrawItem: the eight exhibits
func NewRegistry(cfg config.Config) []DrawItem {
	ex := cfg.Exhibits
	items := []DrawItem{
		{
			Exhibit:  &Bead{Radius: 1, IOR: 1.5, Specular: cfg.Toggles.BeadSpecular, Diffuse: cfg.Toggles.BeadDiffuse},
			Position: ex.Bead.Mgl(),
		},
		{
			Exhibit: &Cloud{
				HalfSize:    1.5,
				Density:     1.2,
				Obstacle:    cfg.Toggles.CloudObstacle,
				ObstaclePos: ex.CloudObstacle.Mgl(),
			},
			Position: ex.Cloud.Mgl(),
		},
		{
			Exhibit: &Mandelbox{Fractal{
				Scale:       0.25,
				Power:       -1.5,
				Iterations:  12,
				BoundRadius: 1.6,
				Color:       mgl32.Vec4{0.9, 0.55, 0.3, 1},
			}},
			Position: ex.Mandelbox.Mgl(),
		},
		{
			Exhibit: &Mandelbulb{Fractal{
				Scale:       1,
				Power:       8,
				Iterations:  8,
				BoundRadius: 1.25,
				Color:       mgl32.Vec4{0.4, 0.7, 0.95, 1},
			}},
			Position: ex.Mandelbulb.Mgl(),
		},
		{
			Exhibit: &Sponge{Fractal{
				Scale:       1,
				Power:       3,
				Iterations:  4,
				BoundRadius: 1.8,
				Color:       mgl32.Vec4{0.8, 0.8, 0.75, 1},
			}},
			Position: ex.Sponge.Mgl(),
		},
		{Exhibit: &Portal{Size: 2.5, Rim: 0.08}, Position: ex.Portal.Mgl()},
		{Exhibit: &Kaleidoscope{Size: 2.5, Segments: 8}, Position: ex.Kaleidoscope.Mgl()},
		{Exhibit: &Water{Size: 6, WaveScale: 0.6, DepthTint: 0.35}, Position: ex.Water.Mgl()},
	}
	for i := range items {
		items[i].Enabled = !cfg.IsDisabled(items[i].Exhibit.Name())
	}
	return items
}

// faceCenter returns the model matrix of a unit quad at pos, turned about Y so its front
// faces the middle of the map.
func faceCenter(pos mgl32.Vec3, size float32) mgl32.Mat4 {
	yaw := float32(0)
	if pos.X() != 0 || pos.Z() != 0 {
		yaw = float32(math.Atan2(float64(-pos.X()), float64(-pos.Z())))
	}
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(size, size, 1))
}
