package frame

import "github.com/Carmen-Shannon/oxy-exhibits/engine/camera"

// OrchestratorBuilderOption configures an Orchestrator before its resources are created.
type OrchestratorBuilderOption func(*orchestratorImpl)

// WithCamera replaces the camera built from the config.
//
// Parameters:
//   - cam: the camera to drive
//
// Returns:
//   - OrchestratorBuilderOption: the option
func WithCamera(cam camera.Camera) OrchestratorBuilderOption {
	return func(o *orchestratorImpl) {
		o.cam = cam
	}
}

// WithDecodeWorkers sets the size of the worker pool that decodes textures at start-up.
// Values below 1 use the number of CPUs.
//
// Parameters:
//   - n: the pool size
//
// Returns:
//   - OrchestratorBuilderOption: the option
func WithDecodeWorkers(n int) OrchestratorBuilderOption {
	return func(o *orchestratorImpl) {
		o.decodeWorkers = n
	}
}
