package driver

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// FrameSink receives a presented frame. Used by the web layer to stream the
// simulator output to connected browsers.
type FrameSink func(rgb []uint8, w, h int)

// Sim is the simulation backend: frames go nowhere except an optional sink.
// Double-buffered like the hardware backends so the core sees identical
// canvas-swap semantics.
type Sim struct {
	mu    sync.Mutex
	w, h  int
	front *Frame
	back  *Frame
	taken bool
	sink  FrameSink
}

func NewSim(w, h int) *Sim {
	return &Sim{
		w:     w,
		h:     h,
		front: NewFrame(w, h),
		back:  NewFrame(w, h),
	}
}

// SetFrameSink installs the presentation callback. May be nil.
func (s *Sim) SetFrameSink(sink FrameSink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

func (s *Sim) TakeCanvas() Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken {
		return nil
	}
	s.taken = true
	return s.front
}

func (s *Sim) UpdateCanvas(c Canvas) Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := c.(*Frame)
	if !ok {
		log.Warn().Msg("sim driver received a foreign canvas; passing it back")
		return c
	}
	if s.sink != nil {
		s.sink(f.RGB(), s.w, s.h)
	}
	s.front, s.back = s.back, f
	return s.front
}

func (s *Sim) Shutdown() {
	log.Info().Msg("sim driver shut down")
}
