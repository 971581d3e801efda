package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownUniform is returned when setting a uniform the program does not declare.
	ErrUnknownUniform = errors.New("unknown uniform")
	// ErrUniformType is returned when a uniform value does not match the declared WGSL type.
	ErrUniformType = errors.New("uniform type mismatch")
)

// UniformType is the host-side kind of a uniform block field.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformInt
	UniformUint
	UniformVec2
	UniformVec3
	UniformVec4
	UniformIVec2
	UniformIVec4
	UniformMat4
)

func (t UniformType) String() string {
	switch t {
	case UniformFloat:
		return "f32"
	case UniformInt:
		return "i32"
	case UniformUint:
		return "u32"
	case UniformVec2:
		return "vec2f"
	case UniformVec3:
		return "vec3f"
	case UniformVec4:
		return "vec4f"
	case UniformIVec2:
		return "vec2i"
	case UniformIVec4:
		return "vec4i"
	case UniformMat4:
		return "mat4x4f"
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// UniformField is one field of a uniform block.
type UniformField struct {
	Name   string
	Type   UniformType
	Offset uint64
	Size   uint64
}

// UniformLayout is the byte layout of a program's uniform block.
type UniformLayout struct {
	fields map[string]UniformField
	order  []string
	size   uint64
}

// Field looks up a field by WGSL name.
//
// Parameters:
//   - name: the field name
//
// Returns:
//   - UniformField: the field
//   - bool: false if the block has no such field
func (l UniformLayout) Field(name string) (UniformField, bool) {
	f, ok := l.fields[name]
	return f, ok
}

// Fields returns the fields in declaration order.
func (l UniformLayout) Fields() []UniformField {
	out := make([]UniformField, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, l.fields[n])
	}
	return out
}

// Size returns the block size in bytes, rounded to 16.
func (l UniformLayout) Size() uint64 {
	return l.size
}

// UniformBlock is the CPU-side staging copy of one uniform block.
// Values persist across draws until overwritten.
type UniformBlock struct {
	layout UniformLayout
	data   []byte
}

// NewUniformBlock allocates a zeroed block for a layout.
//
// Parameters:
//   - layout: the block layout
//
// Returns:
//   - *UniformBlock: the zeroed block
func NewUniformBlock(layout UniformLayout) *UniformBlock {
	return &UniformBlock{layout: layout, data: make([]byte, layout.size)}
}

// Bytes returns the encoded block. The slice aliases the block's storage.
func (b *UniformBlock) Bytes() []byte {
	return b.data
}

// Layout returns the block's layout.
func (b *UniformBlock) Layout() UniformLayout {
	return b.layout
}

// Set encodes a value into the named field.
//
// Accepted Go types per field kind: f32 takes float32; i32 takes int32, int or bool;
// u32 takes uint32 or bool; vectors take the matching mgl32 vector; mat4x4f takes mgl32.Mat4.
//
// Parameters:
//   - name: the WGSL field name
//   - value: the value to encode
//
// Returns:
//   - error: ErrUnknownUniform or ErrUniformType wrapped with the field name
func (b *UniformBlock) Set(name string, value any) error {
	f, ok := b.layout.fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUniform, name)
	}
	dst := b.data[f.Offset : f.Offset+f.Size]

	mismatch := func() error {
		return fmt.Errorf("%w: %s is %s, got %T", ErrUniformType, name, f.Type, value)
	}

	switch f.Type {
	case UniformFloat:
		v, ok := value.(float32)
		if !ok {
			return mismatch()
		}
		putFloats(dst, v)
	case UniformInt:
		switch v := value.(type) {
		case int32:
			binary.LittleEndian.PutUint32(dst, uint32(v))
		case int:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return fmt.Errorf("%w: %s value %d overflows i32", ErrUniformType, name, v)
			}
			binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
		case bool:
			binary.LittleEndian.PutUint32(dst, boolBits(v))
		default:
			return mismatch()
		}
	case UniformUint:
		switch v := value.(type) {
		case uint32:
			binary.LittleEndian.PutUint32(dst, v)
		case bool:
			binary.LittleEndian.PutUint32(dst, boolBits(v))
		default:
			return mismatch()
		}
	case UniformVec2:
		v, ok := value.(mgl32.Vec2)
		if !ok {
			return mismatch()
		}
		putFloats(dst, v[:]...)
	case UniformVec3:
		v, ok := value.(mgl32.Vec3)
		if !ok {
			return mismatch()
		}
		putFloats(dst, v[:]...)
	case UniformVec4:
		v, ok := value.(mgl32.Vec4)
		if !ok {
			return mismatch()
		}
		putFloats(dst, v[:]...)
	case UniformIVec2:
		v, ok := value.([2]int32)
		if !ok {
			return mismatch()
		}
		putInts(dst, v[:]...)
	case UniformIVec4:
		v, ok := value.([4]int32)
		if !ok {
			return mismatch()
		}
		putInts(dst, v[:]...)
	case UniformMat4:
		v, ok := value.(mgl32.Mat4)
		if !ok {
			return mismatch()
		}
		putFloats(dst, v[:]...)
	}
	return nil
}

func putFloats(dst []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func putInts(dst []byte, vs ...int32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[i*4:], uint32(v))
	}
}

func boolBits(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
