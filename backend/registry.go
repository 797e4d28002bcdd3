// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend registers violet.Device implementations.
//
// Backends self-register from init() functions, so importing a backend
// package is enough to make it selectable:
//
//	import _ "github.com/gogpu/violet/backend/gl"
//
//	dev, err := backend.Default()
//
// Front-ends that manage their own context creation can skip the registry
// and construct a device directly (gl.New(), headless.New(w, h)).
package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/violet"
)

// ErrBackendNotAvailable is returned when no requested backend can
// produce a device.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Well-known backend names.
const (
	BackendGL       = "gl"
	BackendHeadless = "headless"
)

// DeviceFactory creates a device, or reports why it cannot (no GL
// context current, missing driver).
type DeviceFactory func() (violet.Device, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]DeviceFactory)

	// Priority order for Default (first that succeeds wins). Hardware
	// before emulation.
	priority = []string{BackendGL, BackendHeadless}
)

// Register registers a device factory under name, replacing any previous
// registration. Typically called from backend package init() functions.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry. Useful for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// Get creates a device from the named backend.
func Get(name string) (violet.Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrBackendNotAvailable
	}
	return factory()
}

// Default creates a device from the best available backend, trying
// hardware first and falling back to emulation.
func Default() (violet.Device, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var firstErr error
	for _, name := range priority {
		factory, ok := factories[name]
		if !ok {
			continue
		}
		dev, err := factory()
		if err == nil {
			violet.Logger().Info("backend selected", "name", name)
			return dev, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		violet.Logger().Warn("backend unavailable", "name", name, "err", err)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrBackendNotAvailable
}
