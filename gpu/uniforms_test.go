package gpu

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzengine/quartz/lin"
)

func TestUniformLayoutsAre16ByteAligned(t *testing.T) {
	cases := []struct {
		name string
		v    any
		size int
	}{
		{"CameraUniformData", CameraUniformData{}, 80},
		{"ModelUniforms", ModelUniforms{}, 128},
		{"MaterialUniforms", MaterialUniforms{}, 48},
		{"DirectionalLightUniform", DirectionalLightUniform{}, 112},
		{"PointLightUniform", PointLightUniform{}, 48},
		{"SpotLightUniform", SpotLightUniform{}, 144},
	}
	for _, tc := range cases {
		size := binary.Size(tc.v)
		assert.Equal(t, tc.size, size, "%s size", tc.name)
		assert.Zero(t, size%16, "%s must be 16-byte aligned", tc.name)
	}

	assert.Zero(t, binary.Size(LightingUniforms{})%16, "LightingUniforms must be 16-byte aligned")
}

func TestMarshalUniformLittleEndian(t *testing.T) {
	u := NewCameraUniformData(lin.Mat4Identity(), lin.V3(1, 2, 3))
	data, err := MarshalUniform(u)
	require.NoError(t, err)
	require.Len(t, data, 80)

	// Column 0 of the identity starts with 1.0f little-endian.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, data[0:4])
	// Camera position X begins at byte 64.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, data[64:68])
}

func TestNewModelUniformsNormalMatrix(t *testing.T) {
	// For a pure rotation the normal matrix equals the model matrix.
	model := lin.Mat4RotationY(0.7)
	u := NewModelUniforms(model)
	for j := 0; j < 4; j++ {
		assert.InDelta(t, float64(model.Cols[j].X), float64(u.Normal.Cols[j].X), 1e-5)
		assert.InDelta(t, float64(model.Cols[j].Y), float64(u.Normal.Cols[j].Y), 1e-5)
		assert.InDelta(t, float64(model.Cols[j].Z), float64(u.Normal.Cols[j].Z), 1e-5)
	}

	// For nonuniform scale it must differ.
	scaled := lin.Mat4Scale(lin.V3(2, 1, 1))
	su := NewModelUniforms(scaled)
	assert.InDelta(t, 0.5, float64(su.Normal.Cols[0].X), 1e-5)
}
