package bind_group_provider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultUniformAlignment is the WebGPU default minUniformBufferOffsetAlignment.
const DefaultUniformAlignment = 256

// ErrArenaExhausted is returned when a frame stages more uniform data than the arena holds.
var ErrArenaExhausted = errors.New("uniform arena exhausted")

type uniformArena struct {
	mu *sync.Mutex

	buffer    *wgpu.Buffer
	alignment uint64
	staging   []byte
	used      uint64
}

// UniformArena is a per-frame staging area for uniform blocks. Every draw copies its program's
// uniform block into a fresh aligned slot and binds it with a dynamic offset, so draws within
// one command submission never share uniform storage. The staged range is uploaded with a
// single queue write before the frame's commands are submitted.
type UniformArena interface {
	// Buffer returns the GPU buffer backing the arena.
	//
	// Returns:
	//   - *wgpu.Buffer: the uniform buffer
	Buffer() *wgpu.Buffer

	// Capacity returns the arena size in bytes.
	//
	// Returns:
	//   - uint64: the capacity
	Capacity() uint64

	// Alloc copies data into the next aligned slot.
	//
	// Parameters:
	//   - data: the encoded uniform block
	//
	// Returns:
	//   - uint32: the dynamic offset of the slot
	//   - error: ErrArenaExhausted if the slot does not fit
	Alloc(data []byte) (uint32, error)

	// Pending returns the write that uploads everything staged since the last Reset,
	// or nil if nothing was staged.
	//
	// Returns:
	//   - []BufferWrite: zero or one buffer write
	Pending() []BufferWrite

	// Reset discards all staged slots. Called at the start of every frame.
	Reset()
}

var _ UniformArena = &uniformArena{}

// NewUniformArena creates an arena over a buffer of the given capacity.
//
// Parameters:
//   - buffer: the GPU uniform buffer, created with Uniform and CopyDst usage
//   - capacity: the buffer size in bytes
//   - alignment: the dynamic offset alignment, DefaultUniformAlignment when zero
//
// Returns:
//   - UniformArena: the arena
func NewUniformArena(buffer *wgpu.Buffer, capacity, alignment uint64) UniformArena {
	if alignment == 0 {
		alignment = DefaultUniformAlignment
	}
	return &uniformArena{
		mu:        &sync.Mutex{},
		buffer:    buffer,
		alignment: alignment,
		staging:   make([]byte, capacity),
	}
}

func (a *uniformArena) Buffer() *wgpu.Buffer {
	return a.buffer
}

func (a *uniformArena) Capacity() uint64 {
	return uint64(len(a.staging))
}

func (a *uniformArena) Alloc(data []byte) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	offset := (a.used + a.alignment - 1) / a.alignment * a.alignment
	end := offset + uint64(len(data))
	if end > uint64(len(a.staging)) {
		return 0, fmt.Errorf("%w: %d bytes at offset %d, capacity %d", ErrArenaExhausted, len(data), offset, len(a.staging))
	}
	copy(a.staging[offset:end], data)
	a.used = end
	return uint32(offset), nil
}

func (a *uniformArena) Pending() []BufferWrite {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.used == 0 {
		return nil
	}
	return []BufferWrite{{Buffer: a.buffer, Offset: 0, Data: a.staging[:a.used]}}
}

func (a *uniformArena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.used = 0
}
