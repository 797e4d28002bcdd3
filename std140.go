package violet

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// std140 packing rules, as the GLSL spec defines them:
//
//   - scalars occupy 4 bytes aligned to 4
//   - vec3 aligns to 16 and consumes a full 16-byte slot
//   - structures and array elements round their size up to 16
//
// std140Writer is a pure, append-only encoder for these rules. It never
// touches the device, so packing is independently testable.
type std140Writer struct {
	buf []byte
}

func (w *std140Writer) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

// PutUint32 appends a 4-byte scalar aligned to 4.
func (w *std140Writer) PutUint32(v uint32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// PutFloat32 appends a 4-byte scalar aligned to 4.
func (w *std140Writer) PutFloat32(v float32) {
	w.PutUint32(math.Float32bits(v))
}

// PutVec3 appends a vec3 aligned to 16, consuming the full 16-byte slot.
func (w *std140Writer) PutVec3(v mgl32.Vec3) {
	w.align(16)
	w.PutFloat32(v.X())
	w.PutFloat32(v.Y())
	w.PutFloat32(v.Z())
	w.buf = append(w.buf, 0, 0, 0, 0)
}

// AlignStruct rounds the buffer up to the next 16-byte boundary, closing
// a structure or array element.
func (w *std140Writer) AlignStruct() {
	w.align(16)
}

// Bytes returns the packed buffer.
func (w *std140Writer) Bytes() []byte { return w.buf }

// validateStd140 checks that an externally packed buffer can legally back
// a uniform block.
func validateStd140(data []byte) error {
	if len(data) == 0 {
		return &LayoutError{Size: 0, Reason: "empty uniform data"}
	}
	if len(data)%16 != 0 {
		return &LayoutError{Size: len(data), Reason: "size is not a multiple of 16"}
	}
	return nil
}
