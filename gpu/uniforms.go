package gpu

import (
	"bytes"
	"encoding/binary"

	"github.com/quartzengine/quartz/lin"
)

// Uniform records mirror their WGSL counterparts byte for byte:
// contiguous little-endian float32 fields with explicit padding so
// every member sits on a 16-byte boundary.

// CameraUniformData is the per-view uniform block.
type CameraUniformData struct {
	// ViewProjection is projection * view.
	ViewProjection lin.Mat4
	// CameraPosition is the world-space camera position; W is padding.
	CameraPosition lin.Vec4
}

// NewCameraUniformData packs a view-projection matrix and camera
// position.
func NewCameraUniformData(viewProjection lin.Mat4, position lin.Vec3) CameraUniformData {
	return CameraUniformData{
		ViewProjection: viewProjection,
		CameraPosition: lin.FromVec3(position, 0),
	}
}

// ModelUniforms is the per-draw transform block.
type ModelUniforms struct {
	// Model is the model-to-world matrix.
	Model lin.Mat4
	// Normal is the transposed inverse of Model, for correct normal
	// transformation under nonuniform scale.
	Normal lin.Mat4
}

// NewModelUniforms derives the normal matrix from the model matrix. A
// singular model matrix falls back to the model matrix itself.
func NewModelUniforms(model lin.Mat4) ModelUniforms {
	normal := model
	if inv, err := model.Inverse(); err == nil {
		normal = inv.Transpose()
	}
	return ModelUniforms{Model: model, Normal: normal}
}

// MaterialUniforms is the standard lit-shader material block.
type MaterialUniforms struct {
	// BaseColor is the albedo in linear RGBA.
	BaseColor lin.LinearRGBA
	// Emissive holds the emissive color in RGB and specular power in A.
	Emissive lin.LinearRGBA
	// Ambient holds the ambient color in RGB; A is padding.
	Ambient lin.LinearRGBA
}

// Lighting uniform capacities, matched by the shader-side arrays.
const (
	MaxDirectionalLights = 4
	MaxPointLights       = 16
	MaxSpotLights        = 8
)

// DirectionalLightUniform is one directional light entry.
type DirectionalLightUniform struct {
	// Direction is the world-space light direction; W is padding.
	Direction lin.Vec4
	Color     lin.LinearRGBA
	// ShadowViewProj maps world space to the light's shadow map.
	ShadowViewProj lin.Mat4
	// ShadowParams packs bias, normal bias, softness; W is padding.
	ShadowParams lin.Vec4
}

// PointLightUniform is one point light entry.
type PointLightUniform struct {
	// Position is the world-space position; W is the light range.
	Position lin.Vec4
	Color    lin.LinearRGBA
	// ShadowParams packs bias and softness; ZW are padding.
	ShadowParams lin.Vec4
}

// SpotLightUniform is one spot light entry.
type SpotLightUniform struct {
	// Position is the world-space position; W is the light range.
	Position lin.Vec4
	// Direction is the cone axis; W is the inner cone cosine.
	Direction lin.Vec4
	Color     lin.LinearRGBA
	// Params packs the outer cone cosine in X; YZW are padding.
	Params         lin.Vec4
	ShadowViewProj lin.Mat4
	ShadowParams   lin.Vec4
}

// LightingUniforms is the global lighting block.
type LightingUniforms struct {
	DirectionalLights    [MaxDirectionalLights]DirectionalLightUniform
	PointLights          [MaxPointLights]PointLightUniform
	SpotLights           [MaxSpotLights]SpotLightUniform
	NumDirectionalLights uint32
	NumPointLights       uint32
	NumSpotLights        uint32
	Pad                  uint32
}

// MarshalUniform serializes a uniform record to the little-endian byte
// layout the shader side expects. The record types in this file are
// fixed-size and padding-explicit, so binary.Write emits exactly the
// in-memory layout.
func MarshalUniform(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
