package driver

// Canvas is a writable pixel buffer handed back and forth between the
// playback core and a driver.
type Canvas interface {
	SetPixel(x, y int, r, g, b uint8)
	Fill(r, g, b uint8)
	// Size returns (width, height) in pixels.
	Size() (int, int)
}

// Driver owns the hardware-facing side of the canvas swap. The core takes a
// canvas once at startup, then trades it for the next writable buffer every
// frame.
type Driver interface {
	// TakeCanvas yields the initial writable canvas. Returns nil if the
	// canvas was already taken or the driver failed to allocate one.
	TakeCanvas() Canvas
	// UpdateCanvas presents the given canvas and returns the next writable
	// buffer (which may or may not be the same one).
	UpdateCanvas(Canvas) Canvas
	Shutdown()
}

// Frame is the in-memory Canvas used by every backend: a flat RGB buffer in
// row-major order.
type Frame struct {
	w, h int
	pix  []uint8
}

func NewFrame(w, h int) *Frame {
	return &Frame{w: w, h: h, pix: make([]uint8, w*h*3)}
}

func (f *Frame) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	i := (y*f.w + x) * 3
	f.pix[i], f.pix[i+1], f.pix[i+2] = r, g, b
}

func (f *Frame) Fill(r, g, b uint8) {
	for i := 0; i < len(f.pix); i += 3 {
		f.pix[i], f.pix[i+1], f.pix[i+2] = r, g, b
	}
}

func (f *Frame) Size() (int, int) { return f.w, f.h }

// RGB exposes the raw buffer for presentation. Callers must not hold on to
// the slice across a canvas swap.
func (f *Frame) RGB() []uint8 { return f.pix }
