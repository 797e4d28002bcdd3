// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command bsurf renders a tessellated Bézier patch under three lights,
// accumulated in HDR and tone mapped to the window. The window, input
// and frame loop live here; all device work goes through violet.
//
// Keys: Up/Down adjust exposure, W toggles wireframe, Esc quits.
package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/violet"
	glbackend "github.com/gogpu/violet/backend/gl"
)

func init() {
	// The device context is thread-bound.
	runtime.LockOSThread()
}

func controlGrid() [][]mgl32.Vec3 {
	heights := [4][4]float32{
		{0.0, 0.3, -0.2, 0.0},
		{0.4, 1.2, 0.8, -0.3},
		{-0.2, 0.9, 1.4, 0.2},
		{0.0, -0.4, 0.3, 0.0},
	}
	grid := make([][]mgl32.Vec3, 4)
	for r := range grid {
		grid[r] = make([]mgl32.Vec3, 4)
		for c := range grid[r] {
			grid[r][c] = mgl32.Vec3{
				float32(c)/3*2 - 1,
				heights[r][c],
				float32(r)/3*2 - 1,
			}
		}
	}
	return grid
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	violet.SetLogger(logger)

	if err := glfw.Init(); err != nil {
		logger.Error("glfw init failed", "err", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(1280, 720, "bsurf", nil, nil)
	if err != nil {
		logger.Error("window creation failed", "err", err)
		os.Exit(1)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := glbackend.New()
	if err != nil {
		logger.Error("device init failed", "err", err)
		os.Exit(1)
	}

	if err := run(window, dev, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(window *glfw.Window, dev violet.Device, logger *slog.Logger) error {
	surf, err := violet.NewBezierSurface(controlGrid())
	if err != nil {
		return err
	}
	data, err := surf.Tessellate(48, 48)
	if err != nil {
		return err
	}
	mesh, err := violet.NewMesh(dev, data)
	if err != nil {
		return err
	}
	defer mesh.Release()

	material, err := violet.NewMaterial(dev, violet.WithColor(mgl32.Vec3{0.75, 0.3, 0.22}))
	if err != nil {
		return err
	}
	defer material.Release()

	// Wireframe mode draws at the guard level with an unlit program.
	wireMat, err := violet.NewMaterial(dev, violet.Unlit(), violet.WithColor(mgl32.Vec3{0.9, 0.9, 0.9}))
	if err != nil {
		return err
	}
	defer wireMat.Release()

	lights, err := violet.NewLightBuffer(dev, []violet.LightDescriptor{
		{Kind: violet.LightAmbient, Color: mgl32.Vec3{0.08, 0.08, 0.1}},
		{Kind: violet.LightDirectional, PosDir: mgl32.Vec3{-0.4, -1, -0.3}, Color: mgl32.Vec3{1.1, 1.05, 0.95}},
		{Kind: violet.LightPoint, PosDir: mgl32.Vec3{0, 2.5, 0}, Color: mgl32.Vec3{2, 1.2, 0.6}},
	})
	if err != nil {
		return err
	}
	defer lights.Release()

	width, height := window.GetFramebufferSize()
	hdr, err := violet.NewRenderBuffers(dev, width, height, violet.WithExposure(1.2))
	if err != nil {
		return err
	}
	defer hdr.Release()

	wireframe := false
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyUp:
			hdr.SetExposure(hdr.Exposure() * 1.25)
			logger.Info("exposure", "value", hdr.Exposure())
		case glfw.KeyDown:
			hdr.SetExposure(hdr.Exposure() / 1.25)
			logger.Info("exposure", "value", hdr.Exposure())
		case glfw.KeyW:
			wireframe = !wireframe
		}
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if w > 0 && h > 0 {
			width, height = w, h
			if err := hdr.Resize(w, h); err != nil {
				logger.Warn("resize failed", "err", err)
			}
		}
	})

	screen := violet.DefaultFramebuffer(dev)

	for !window.ShouldClose() {
		t := float32(glfw.GetTime()) * 0.4
		eye := mgl32.Vec3{3 * math32.Cos(t), 1.8, 3 * math32.Sin(t)}
		view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0.4, 0}, mgl32.Vec3{0, 1, 0})
		proj := mgl32.Perspective(mgl32.DegToRad(55), float32(width)/float32(height), 0.1, 100)
		viewProj := proj.Mul4(view)

		fbb, err := hdr.Bind()
		if err != nil {
			return err
		}
		if wireframe {
			pb, err := wireMat.Program().Bind()
			if err != nil {
				return err
			}
			pb.SetMat4("model", mgl32.Ident4())
			pb.SetMat4("view_proj", viewProj)
			fbb.SetBlend(violet.BlendReplace)
			if err := mesh.Wireframe(fbb); err != nil {
				return err
			}
		} else {
			lb, err := lights.Bind()
			if err != nil {
				return err
			}
			if err := material.Draw(fbb, lb, mgl32.Ident4(), viewProj, mesh); err != nil {
				return err
			}
		}

		screenBind, err := screen.Bind()
		if err != nil {
			return err
		}
		screenBind.Viewport(0, 0, width, height)
		if err := hdr.BlitTonemap(screenBind); err != nil {
			return err
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
