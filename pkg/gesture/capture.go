package gesture

// Capture is the host's pointer capture primitive. The interpreter acquires the pointer on
// pointer-down and releases it exactly once when the gesture ends, so a pointer-up delivered
// anywhere on screen still reaches the interpreter.
type Capture interface {
	Acquire(pointerID int)
	Release(pointerID int)
}

// NoCapture is used when the host delivers every pointer event to the interpreter anyway.
type NoCapture struct{}

func (NoCapture) Acquire(int) {}
func (NoCapture) Release(int) {}
