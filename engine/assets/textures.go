package assets

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("assets")

// Image is one image to decode. An empty Path selects Procedural.
type Image struct {
	Name       string
	Path       string
	Procedural func() common.TextureStagingData
}

// DecodeImages decodes every image in parallel on a worker pool. A configured path that
// cannot be read or decoded is an error; an empty path never touches the filesystem.
//
// Parameters:
//   - images: the images to decode
//   - workers: the pool size; values below 1 use the number of CPUs
//
// Returns:
//   - []common.TextureStagingData: the decoded images in input order
//   - error: the first decode error in input order
func DecodeImages(images []Image, workers int) ([]common.TextureStagingData, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	defer pool.Stop()

	out := make([]common.TextureStagingData, len(images))
	errs := make([]error, len(images))
	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		id, imgCap := i, img
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				out[id], errs[id] = decodeImage(imgCap)
				return nil, errs[id]
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", images[i].Name, err)
		}
	}
	return out, nil
}

func decodeImage(img Image) (common.TextureStagingData, error) {
	if img.Path == "" {
		if img.Procedural == nil {
			return common.TextureStagingData{}, fmt.Errorf("no path and no procedural fallback")
		}
		return img.Procedural(), nil
	}
	data, err := common.DecodeImageFile(img.Path)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	logger.Infof("decoded %s (%dx%d)", img.Path, data.Width, data.Height)
	return data, nil
}

// SceneTextures are the textures the environment and exhibits sample.
type SceneTextures struct {
	GroundAlbedo renderer.Texture
	GroundNormal renderer.Texture
	Skybox       renderer.Texture
	PortalSkybox renderer.Texture
}

// Release frees every texture.
func (t *SceneTextures) Release() {
	for _, tex := range []renderer.Texture{t.GroundAlbedo, t.GroundNormal, t.Skybox, t.PortalSkybox} {
		if tex != nil {
			tex.Release()
		}
	}
}

// cubeFaces squares every face to the larger side of the first one. Face files are
// configured one by one and need not agree.
func cubeFaces(name string, decoded []common.TextureStagingData) [6]common.TextureStagingData {
	var faces [6]common.TextureStagingData
	side := max(decoded[0].Width, decoded[0].Height)
	for i := range faces {
		faces[i] = decoded[i]
		if faces[i].Width != side || faces[i].Height != side {
			logger.Infof("%s face %d resized from %dx%d to %dx%d", name, i, faces[i].Width, faces[i].Height, side, side)
			faces[i] = common.ResizeRGBA(faces[i], side, side)
		}
	}
	return faces
}

func skyImages(name string, paths []string, palette SkyPalette) ([]Image, error) {
	if len(paths) != 0 && len(paths) != 6 {
		return nil, fmt.Errorf("%s needs 6 face paths, got %d", name, len(paths))
	}
	images := make([]Image, 6)
	for face := range images {
		f := face
		images[face] = Image{
			Name:       fmt.Sprintf("%s face %d", name, face),
			Procedural: func() common.TextureStagingData { return SkyFace(f, palette) },
		}
		if len(paths) == 6 {
			if paths[face] == "" {
				return nil, fmt.Errorf("%s face %d has an empty path", name, face)
			}
			images[face].Path = paths[face]
		}
	}
	return images, nil
}

// LoadSceneTextures decodes and uploads the ground and sky textures. Empty paths select
// procedural textures.
//
// Parameters:
//   - factory: the resource factory
//   - cfg: the configured asset paths
//   - workers: the decode pool size
//
// Returns:
//   - *SceneTextures: the uploaded textures
//   - error: a decode or upload error; textures uploaded before it are released
func LoadSceneTextures(factory renderer.ResourceFactory, cfg config.AssetsConfig, workers int) (*SceneTextures, error) {
	sky, err := skyImages("skybox", cfg.Skybox, DaySky)
	if err != nil {
		return nil, err
	}
	portalSky, err := skyImages("portal skybox", cfg.PortalSkybox, DuskSky)
	if err != nil {
		return nil, err
	}

	images := []Image{
		{
			Name: "ground albedo",
			Path: cfg.GroundAlbedo,
			Procedural: func() common.TextureStagingData {
				return Checker(256, 16, mgl32.Vec3{0.42, 0.45, 0.4}, mgl32.Vec3{0.3, 0.33, 0.3})
			},
		},
		{Name: "ground normal", Path: cfg.GroundNormal, Procedural: FlatNormal},
	}
	images = append(images, sky...)
	images = append(images, portalSky...)

	decoded, err := DecodeImages(images, workers)
	if err != nil {
		return nil, err
	}

	t := &SceneTextures{}
	fail := func(err error) (*SceneTextures, error) {
		t.Release()
		return nil, err
	}
	if t.GroundAlbedo, err = factory.CreateTexture("ground albedo", decoded[0]); err != nil {
		return fail(err)
	}
	if t.GroundNormal, err = factory.CreateTexture("ground normal", decoded[1]); err != nil {
		return fail(err)
	}
	if t.Skybox, err = factory.CreateCubeTexture("skybox", cubeFaces("skybox", decoded[2:8])); err != nil {
		return fail(err)
	}
	if t.PortalSkybox, err = factory.CreateCubeTexture("portal skybox", cubeFaces("portal skybox", decoded[8:14])); err != nil {
		return fail(err)
	}
	logger.Infof("loaded %d scene images", len(images))
	return t, nil
}
