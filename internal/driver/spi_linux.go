//go:build linux

package driver

import (
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// SPI drives a chained WS281x-style panel through periph.io's NRZ encoder.
// The panel wiring is serpentine: every odd row runs right-to-left.
type SPI struct {
	mu    sync.Mutex
	w, h  int
	dev   *nrzled.Dev
	front *Frame
	back  *Frame
	strip *image.NRGBA
	taken bool
}

// NewSPI opens the named SPI port ("" = first available) and prepares the
// LED device for a w*h pixel chain.
func NewSPI(port string, w, h int, speedHz int) (*SPI, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid panel size %dx%d", w, h)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}
	if speedHz <= 0 {
		speedHz = 2_500_000
	}
	opts := nrzled.Opts{
		NumPixels: w * h,
		Channels:  3,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	}
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled init: %w", err)
	}
	if err := dev.Halt(); err != nil {
		log.Warn().Err(err).Msg("initial halt failed")
	}
	return &SPI{
		w:     w,
		h:     h,
		dev:   dev,
		front: NewFrame(w, h),
		back:  NewFrame(w, h),
		strip: image.NewNRGBA(image.Rect(0, 0, w*h, 1)),
	}, nil
}

func (s *SPI) TakeCanvas() Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken {
		return nil
	}
	s.taken = true
	return s.front
}

func (s *SPI) UpdateCanvas(c Canvas) Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := c.(*Frame)
	if !ok {
		log.Warn().Msg("spi driver received a foreign canvas; passing it back")
		return c
	}
	s.present(f)
	s.front, s.back = s.back, f
	return s.front
}

// present linearizes the frame into the serpentine strip order and pushes it
// out through the NRZ encoder.
func (s *SPI) present(f *Frame) {
	rgb := f.RGB()
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			src := (y*s.w + x) * 3
			xx := x
			if y%2 == 1 {
				xx = s.w - 1 - x
			}
			dst := (y*s.w + xx) * 4
			s.strip.Pix[dst+0] = rgb[src+0]
			s.strip.Pix[dst+1] = rgb[src+1]
			s.strip.Pix[dst+2] = rgb[src+2]
			s.strip.Pix[dst+3] = 0xFF
		}
	}
	if err := s.dev.Draw(s.dev.Bounds(), s.strip, image.Point{}); err != nil {
		log.Error().Err(err).Msg("spi draw failed")
	}
}

func (s *SPI) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.Halt(); err != nil {
		log.Warn().Err(err).Msg("halt on shutdown failed")
	}
	log.Info().Msg("spi driver shut down")
}
