// Package violet provides a safety layer over bind-based graphics APIs,
// plus a small Bézier surface rendering pipeline built on top of it.
//
// # Overview
//
// OpenGL-style APIs are implicit state machines: you bind an object, and
// subsequent calls act on "whatever is currently bound". Nothing at the
// call-site proves that the right object is active, that it is still alive,
// or that it is even an object of the right kind. violet wraps every
// device-owned object (buffer, texture, framebuffer, shader program, uniform
// block) in an ownership-tracked handle, and gates every state-dependent
// operation behind a binding guard: a typed token produced by Bind() whose
// existence at the call-site proves the required resource is active.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/violet"
//	    "github.com/gogpu/violet/backend/headless"
//	)
//
//	dev := headless.New(256, 256)
//
//	// Tessellate a Bézier patch into a mesh.
//	surf, _ := violet.NewBezierSurface(controlPoints)
//	data, _ := surf.Tessellate(32, 32)
//	mesh, _ := violet.NewMesh(dev, data)
//	defer mesh.Release()
//
//	// Bind the framebuffer; the returned guard is required by Draw.
//	fb := violet.DefaultFramebuffer(dev)
//	fbb, _ := fb.Bind()
//
//	mat, _ := violet.NewMaterial(dev, violet.WithColor(mgl32.Vec3{0.5, 0.5, 0.5}))
//	lights, _ := violet.NewLightBuffer(dev, []violet.LightDescriptor{
//	    {Kind: violet.LightAmbient, Color: mgl32.Vec3{1, 1, 1}},
//	})
//	lb, _ := lights.Bind()
//	mat.Draw(fbb, lb, model, viewProj, mesh)
//
// # Architecture
//
// The library is organized into:
//   - Core guard model: handle.go, buffer.go, texture.go, framebuffer.go,
//     program.go, uniform.go
//   - Geometry: bezier.go (de Casteljau), tessellate.go, mesh.go
//   - Rendering: material.go (per-light passes), renderbuffers.go (HDR +
//     Reinhard tone mapping), screen.go (fullscreen passes)
//   - Backends: backend/gl (OpenGL 4.1 core), backend/headless (CPU
//     emulation for tests and CI)
//
// # Known Limitation
//
// Binding a second object of the same kind supersedes the earlier guard:
// the device has one active slot per kind and the most recent bind wins.
// The guard model makes the requirement visible at the call-site but does
// not statically prevent two live guards of the same kind from aliasing
// the slot. Bind, use, and let the guard go out of scope before binding
// the next object of that kind.
package violet

// Version is the current version of the library.
const Version = "0.2.0"
