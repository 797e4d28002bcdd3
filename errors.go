package violet

import "fmt"

// The error taxonomy mirrors the ways a bind-based device can reject work:
//
//   - DeviceError: the device refused an operation (out of memory, invalid
//     enum, invalid or released object, incomplete framebuffer).
//   - CompileError: shader source failed to compile or link; carries the raw
//     compiler diagnostic.
//   - LayoutError: packed uniform data violates std140 size/alignment rules.
//   - ConfigurationError: the requested configuration cannot exist (missing
//     material variant, empty control net, lit draw without lights).
//
// All device-facing operations return one of these rather than aborting.
// None of them are transient: retrying without changing parameters will fail
// again, so violet never retries internally. Match with errors.As:
//
//	var cerr *violet.CompileError
//	if errors.As(err, &cerr) {
//	    log.Println(cerr.Log)
//	}

// DeviceError reports an operation rejected by the device.
type DeviceError struct {
	// Op is the operation that failed, e.g. "BufferData" or "TexImage2D".
	Op string

	// Reason is the device-reported or library-detected cause.
	Reason string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("violet: device error in %s: %s", e.Op, e.Reason)
}

// CompileError reports a shader compilation or program link failure.
// Compilation failure is always recoverable by the caller; violet never
// aborts on bad shader source.
type CompileError struct {
	// Stage identifies the failing stage: "vertex", "fragment" or "link".
	Stage string

	// Log is the raw diagnostic text reported by the compiler.
	Log string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("violet: %s shader compilation failed: %s", e.Stage, e.Log)
}

// LayoutError reports packed uniform data whose size or alignment does not
// satisfy std140 rules.
type LayoutError struct {
	// Size is the offending byte length.
	Size int

	// Reason describes the violated rule.
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("violet: std140 layout error (%d bytes): %s", e.Size, e.Reason)
}

// ConfigurationError reports a configuration that cannot be satisfied,
// detected at construction time rather than at draw time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "violet: configuration error: " + e.Reason
}

// errReleased builds the DeviceError used whenever an operation reaches a
// handle whose device object has already been released.
func errReleased(op string, kind ResourceKind) *DeviceError {
	return &DeviceError{Op: op, Reason: fmt.Sprintf("%s already released", kind)}
}
