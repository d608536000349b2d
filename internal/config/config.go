package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Panel struct {
	Rows     int `yaml:"rows"`
	Cols     int `yaml:"cols"`
	Chain    int `yaml:"chain"`    // panels chained horizontally
	Parallel int `yaml:"parallel"` // chains stacked vertically
}

type HTTP struct {
	Addr string `yaml:"addr"` // e.g. ":3000"
	Port int    `yaml:"port"`
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "sim"
	Brightness int    `yaml:"brightness"`

	Panel Panel `yaml:"panel"`
	SPI   SPI   `yaml:"spi,omitempty"`
	HTTP  HTTP  `yaml:"http"`

	StorageDir       string `yaml:"storage_dir"`
	PreviewTimeoutS  int    `yaml:"preview_timeout_s"`
	DropPrivileges   bool   `yaml:"drop_privileges"`
	InterfaceLogging bool   `yaml:"interface_logging"`
}

// Default is the configuration used when no file is given: a 64x32 panel on
// the simulator, web UI on :3000.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		Brightness: 100,
		Panel:      Panel{Rows: 32, Cols: 64, Chain: 1, Parallel: 1},
		SPI:        SPI{Dev: "/dev/spidev0.0", SpeedHz: 2500000},
		HTTP:       HTTP{Addr: ":3000", Port: 3000},

		PreviewTimeoutS: 5,
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	if c.Panel.Rows <= 0 || c.Panel.Cols <= 0 {
		return fmt.Errorf("panel rows and cols must be positive")
	}
	if c.Panel.Chain <= 0 || c.Panel.Parallel <= 0 {
		return fmt.Errorf("panel chain and parallel must be positive")
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		return fmt.Errorf("brightness must be 0-100, got %d", c.Brightness)
	}
	switch c.Driver {
	case "spi", "sim":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return nil
}

// Width is the full display width in pixels.
func (c *Config) Width() int { return c.Panel.Cols * c.Panel.Chain }

// Height is the full display height in pixels.
func (c *Config) Height() int { return c.Panel.Rows * c.Panel.Parallel }
