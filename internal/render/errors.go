package render

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferCapacityExceeded is returned when merged geometry does not fit a GPU buffer.
	ErrBufferCapacityExceeded = errors.New("buffer capacity exceeded")
	// ErrMesherClosed is returned when meshing is requested after the mesher shut down.
	ErrMesherClosed = errors.New("chunk mesher closed")
	// ErrUnknownBuffer is returned by devices for handles they did not allocate.
	ErrUnknownBuffer = errors.New("unknown buffer handle")
)

// CapacityError describes a write that would overrun a buffer.
type CapacityError struct {
	Kind     BufferKind
	Need     int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s buffer needs %d bytes, capacity is %d", e.Kind, e.Need, e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrBufferCapacityExceeded
}
