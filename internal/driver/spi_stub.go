//go:build !linux

package driver

import "fmt"

type SPI struct{}

func NewSPI(port string, w, h int, speedHz int) (*SPI, error) {
	return nil, fmt.Errorf("spi driver not supported on this platform")
}

func (s *SPI) TakeCanvas() Canvas { return nil }

func (s *SPI) UpdateCanvas(c Canvas) Canvas { return c }

func (s *SPI) Shutdown() {}
