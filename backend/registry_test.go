// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/violet"
	"github.com/gogpu/violet/backend"
	"github.com/gogpu/violet/backend/headless"
)

func TestRegistry_HeadlessSelfRegisters(t *testing.T) {
	if !slices.Contains(backend.Available(), backend.BackendHeadless) {
		t.Fatalf("Available() = %v, headless missing", backend.Available())
	}
	dev, err := backend.Get(backend.BackendHeadless)
	if err != nil {
		t.Fatalf("Get(headless): %v", err)
	}
	if dev == nil {
		t.Fatal("Get returned nil device")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	if _, err := backend.Get("no-such-backend"); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Fatalf("Get(unknown) = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	const name = "test-backend"
	backend.Register(name, func() (violet.Device, error) {
		return headless.New(2, 2), nil
	})
	defer backend.Unregister(name)

	dev, err := backend.Get(name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dev == nil {
		t.Fatal("factory produced nil device")
	}

	backend.Unregister(name)
	if _, err := backend.Get(name); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Fatalf("Get after Unregister = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistry_DefaultFallsBackToHeadless(t *testing.T) {
	// The GL backend is not linked into this test binary, so Default must
	// fall through to the headless emulation.
	dev, err := backend.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, ok := dev.(*headless.Device); !ok {
		t.Fatalf("Default() = %T, want *headless.Device", dev)
	}
}
