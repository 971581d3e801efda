package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureBindGroupCache(t *testing.T) {
	p := NewBindGroupProvider("bead")
	assert.Equal(t, "bead", p.Label())

	_, ok := p.TextureBindGroup([]uint64{1, 2})
	assert.False(t, ok)

	p.SetTextureBindGroup([]uint64{1, 2}, nil)
	p.SetTextureBindGroup([]uint64{1, 3}, nil)
	p.SetTextureBindGroup([]uint64{4}, nil)

	_, ok = p.TextureBindGroup([]uint64{1, 2})
	assert.True(t, ok)
	_, ok = p.TextureBindGroup([]uint64{2, 1})
	assert.False(t, ok, "slot order is part of the key")

	assert.Equal(t, 2, p.ForgetTexture(1))
	assert.Equal(t, 1, p.CachedTextureBindGroups())
	assert.Equal(t, 0, p.ForgetTexture(1))

	p.Release()
	assert.Equal(t, 0, p.CachedTextureBindGroups())
}

func TestBindGroupLayoutsOrdered(t *testing.T) {
	p := NewBindGroupProvider("sky", WithBindGroupLayout(1, nil))
	assert.Len(t, p.BindGroupLayouts(), 2)
	assert.Empty(t, NewBindGroupProvider("empty").BindGroupLayouts())
}

func TestUniformArenaAlignsSlots(t *testing.T) {
	a := NewUniformArena(nil, 1024, 0)
	assert.Equal(t, uint64(1024), a.Capacity())
	assert.Nil(t, a.Pending())

	off, err := a.Alloc(make([]byte, 96))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off)

	off, err = a.Alloc([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint32(256), off)

	pending := a.Pending()
	require.Len(t, pending, 1)
	assert.Len(t, pending[0].Data, 260)
	assert.Equal(t, byte(3), pending[0].Data[258])

	a.Reset()
	assert.Nil(t, a.Pending())
	off, err = a.Alloc([]byte{9})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off)
}

func TestUniformArenaExhausted(t *testing.T) {
	a := NewUniformArena(nil, 512, 256)
	_, err := a.Alloc(make([]byte, 200))
	require.NoError(t, err)
	_, err = a.Alloc(make([]byte, 200))
	require.NoError(t, err)
	_, err = a.Alloc(make([]byte, 1))
	assert.ErrorIs(t, err, ErrArenaExhausted)
}
