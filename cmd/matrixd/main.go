package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/internal/display"
	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/storage"
	"github.com/coreman2200/funtimes-ledmatrix/internal/sysutil"
	"github.com/coreman2200/funtimes-ledmatrix/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driverName = flag.String("driver", "", "driver override: spi | sim")
		addr       = flag.String("addr", "", "HTTP listen address override")
		storageDir = flag.String("storage", "", "storage directory override")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// ---- Configuration (file over defaults, flags over file) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults")
	} else {
		cfg = c
	}
	if *driverName != "" {
		cfg.Driver = *driverName
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}
	if *storageDir != "" {
		cfg.StorageDir = *storageDir
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = storage.DefaultDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	width, height := cfg.Width(), cfg.Height()

	// ---- Driver selection ----
	var drv driver.Driver
	switch cfg.Driver {
	case "spi":
		d, err := driver.NewSPI(cfg.SPI.Dev, width, height, cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to simulator")
			drv = driver.NewSim(width, height)
			cfg.Driver = "sim"
		} else {
			drv = d
		}
	default:
		drv = driver.NewSim(width, height)
	}

	// Hardware is open; root is no longer needed.
	if cfg.DropPrivileges {
		if err := sysutil.DropPrivileges(); err != nil {
			log.Fatal().Err(err).Msg("failed to drop privileges")
		}
	}

	// ---- Storage ----
	store, err := storage.New(cfg.StorageDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.StorageDir).Msg("failed to open storage")
	}

	brightness := cfg.Brightness
	if saved, ok := store.LoadBrightness(); ok {
		brightness = saved
	}

	// ---- Playback controller ----
	controller := display.NewController(drv, width, height, brightness, cfg.HTTP.Port, store)
	if playlist, ok := store.LoadPlaylist(); ok {
		controller.SetPlaylist(playlist)
		log.Info().Int("items", len(playlist.Items)).Msg("loaded saved playlist")
	}

	// ---- Web layer ----
	hub := web.NewHub()
	if sim, ok := drv.(*driver.Sim); ok {
		sim.SetFrameSink(hub.FrameSink)
	}
	server := web.NewServer(controller, store, hub)

	mws := []func(http.Handler) http.Handler{web.CORS}
	if cfg.InterfaceLogging {
		mws = append(mws, web.RequestLogger)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Router(mws...),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	previewTimeout := display.DefaultPreviewTimeout
	if cfg.PreviewTimeoutS > 0 {
		previewTimeout = time.Duration(cfg.PreviewTimeoutS) * time.Second
	}
	go display.RunUpdateLoop(ctx, controller, hub, previewTimeout)

	go func() {
		log.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("driver", cfg.Driver).
			Int("width", width).
			Int("height", height).
			Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	cancel()
	_ = srv.Close()
	controller.Shutdown()
}
