package game

// HeadlessFrontend runs the frame loop without a window, for benchmarking
// the meshing pipeline against a memory device.
type HeadlessFrontend struct {
	frames int
	polled int
}

// NewHeadlessFrontend closes after frames polls; 0 never closes.
func NewHeadlessFrontend(frames int) *HeadlessFrontend {
	return &HeadlessFrontend{frames: frames}
}

func (f *HeadlessFrontend) ShouldClose() bool {
	return f.frames > 0 && f.polled >= f.frames
}

func (f *HeadlessFrontend) PollEvents() Input {
	f.polled++
	return Input{Focused: true}
}

func (f *HeadlessFrontend) BeginFrame() {}
func (f *HeadlessFrontend) EndFrame()   {}
