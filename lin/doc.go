// Package lin provides the linear-algebra kernel for the engine:
// vectors, column-major matrices, quaternions, affine transforms,
// axis-aligned bounding boxes and linear color.
//
// All types are plain float32 value types in a right-handed coordinate
// system. View matrices look down -Z in camera space and projections map
// depth to the [0, 1] range expected by modern graphics APIs.
package lin
