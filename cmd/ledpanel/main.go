package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cjeanneret/ledpanel/internal/config"
	"github.com/cjeanneret/ledpanel/internal/debug"
	"github.com/cjeanneret/ledpanel/internal/frontend"
	"github.com/cjeanneret/ledpanel/internal/hw/gpio"
	"github.com/cjeanneret/ledpanel/internal/hw/led"
	"github.com/cjeanneret/ledpanel/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "web server port; -web= for default 8080, -web 8980 for custom port (default: from config)")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	pin := flag.Int("pin", 0, "override LED GPIO pin (BCM, 1-27)")
	mock := flag.Bool("mock", false, "force the mock GPIO driver")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		logrus.Fatalf("config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-zero values are applied; zero means "use config default")
	if err := validateCLIOverrides(*pin); err != nil {
		logrus.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, overrides{Pin: *pin, Port: webPort.port(), MockGPIO: *mock})

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("config_path", *cfgPath)
	debug.Value("debug_level", debug.Level())
	debug.Value("mock_gpio", cfg.Defaults.MockGPIO)

	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		logrus.Fatalf("init GPIO failed: %v", err)
	}

	err = run(ctx, cfg, gpioDriver)
	if cerr := gpioDriver.Close(); cerr != nil {
		logrus.Errorf("closing GPIO driver failed: %v", cerr)
	}
	if err != nil {
		logrus.Fatalf("web server: %v", err)
	}
}

// run wires the LED, the assets and the web server, and serves until ctx is cancelled.
// The LED is switched off before returning.
func run(ctx context.Context, cfg *config.Config, gpioDriver gpio.Driver) error {
	debug.Step(2, "Initializing LED")
	light, err := led.New(gpioDriver, cfg.LED.Pin, cfg.LED.ActiveLow)
	if err != nil {
		return fmt.Errorf("init LED: %w", err)
	}
	defer func() {
		if err := light.Off(); err != nil {
			debug.Error(err)
		}
	}()
	debug.PrintStruct("LED config", cfg.LED)

	debug.Step(3, "Registering assets")
	assets := frontend.Default()
	logAssets(assets)

	debug.Step(4, "Starting web server")
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	broadcaster := web.NewStatusBroadcaster()
	debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))
	defer debug.SetOutput(os.Stdout)

	handlers := web.NewHandlers(
		broadcaster,
		light,
		assets,
		web.NewMetrics(registry),
		rate.Limit(cfg.Web.ToggleRatePerSec),
		cfg.Web.ToggleBurst,
	)
	srv := web.NewServer(cfg.Addr(), handlers, registry)
	debug.Summary(fmt.Sprintf("LED panel on http://localhost%s/admin (pin %d)", cfg.Addr(), light.Pin()))
	return srv.Run(ctx)
}

// logAssets lists the registered assets at verbose level.
func logAssets(assets *frontend.Registry) {
	if !debug.IsEnabled(debug.LevelVerbose) {
		return
	}
	for _, name := range assets.Names() {
		a, _ := assets.Lookup(name)
		debug.Verbose("asset %s (%s) -> %s (%s)", name, a.Path(), a.Route(), a.ContentType())
	}
}

// validateCLIOverrides checks that non-zero CLI overrides are within valid ranges.
// Zero values are ignored (they mean "use config default").
func validateCLIOverrides(pin int) error {
	if pin != 0 && (pin < 1 || pin > 27) {
		return fmt.Errorf("pin must be between 1 and 27, got %d", pin)
	}
	return nil
}

// overrides holds CLI values that replace config file values.
type overrides struct {
	Pin      int
	Port     int
	MockGPIO bool
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.Pin > 0 {
		cfg.LED.Pin = o.Pin
	}
	if o.Port > 0 {
		cfg.Web.Port = o.Port
	}
	if o.MockGPIO {
		cfg.Defaults.MockGPIO = true
	}
}

// webPortFlag implements flag.Value for -web: 0 = use config, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
