package target

import "github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"

// ChainBuilderOption is a functional option applied to a Chain during construction via NewChain.
type ChainBuilderOption func(*chainImpl)

// WithChainFormat sets the color format of both targets. The default is RGBA8Unorm.
//
// Parameters:
//   - format: the color format
//
// Returns:
//   - ChainBuilderOption: a function that applies the format option to a chain
func WithChainFormat(format pipeline.Format) ChainBuilderOption {
	return func(c *chainImpl) {
		c.format = format
	}
}
