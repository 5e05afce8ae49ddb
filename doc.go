// Package quartz is the root of the Quartz engine core: the runtime
// substrate beneath scene representation, rendering, and simulation.
//
// The core is split into focused subpackages:
//
//   - lin: vectors, matrices, quaternions, transforms, AABBs, color
//   - telemetry: typed metrics registry, scheduler, resource monitors
//   - gpu: backend-agnostic graphics device contract and headless device
//   - gpu/wgpuadapter: device implementation over gogpu/wgpu
//   - spatial: dynamic AABB tree broadphase
//   - physics: narrowphase contact generation and impulse solver
//   - control: rolling metric windows and the adaptive heuristic engine
//
// The root package carries only cross-cutting plumbing: the logger
// shared by all subpackages.
package quartz
