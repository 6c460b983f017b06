package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cjeanneret/ledpanel/internal/config"
	"github.com/cjeanneret/ledpanel/internal/debug"
	"github.com/cjeanneret/ledpanel/internal/frontend"
	"github.com/cjeanneret/ledpanel/internal/hw/gpio"
)

// ---------- validateCLIOverrides ----------

func TestValidateCLIOverrides_Zero(t *testing.T) {
	if err := validateCLIOverrides(0); err != nil {
		t.Errorf("zero should be valid (use config default), got: %v", err)
	}
}

func TestValidateCLIOverrides_Pins(t *testing.T) {
	cases := []struct {
		pin     int
		wantErr bool
	}{
		{1, false},
		{17, false},
		{27, false},
		{-1, true},
		{28, true},
	}
	for _, tc := range cases {
		err := validateCLIOverrides(tc.pin)
		if tc.wantErr && err == nil {
			t.Errorf("pin %d: expected error, got nil", tc.pin)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("pin %d: unexpected error: %v", tc.pin, err)
		}
	}
}

// ---------- webPortFlag ----------

func TestWebPortFlag_EmptyString(t *testing.T) {
	w := &webPortFlag{defaultPort: 8080}
	if err := w.Set(""); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
	if w.port() != 8080 {
		t.Errorf("expected default port 8080, got %d", w.port())
	}
}

func TestWebPortFlag_ValidPorts(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
		{"3000", 3000},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(tc.input); err != nil {
				t.Fatalf("Set(%q) error: %v", tc.input, err)
			}
			if w.port() != tc.want {
				t.Errorf("port() = %d, want %d", w.port(), tc.want)
			}
		})
	}
}

func TestWebPortFlag_InvalidPorts(t *testing.T) {
	cases := []string{"0", "65536", "-1", "abc", "8080.5"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(input); err == nil {
				t.Errorf("Set(%q) should fail, got nil", input)
			}
		})
	}
}

func TestWebPortFlag_String(t *testing.T) {
	w := &webPortFlag{val: 0}
	if s := w.String(); s != "0" {
		t.Errorf("String() = %q, want \"0\"", s)
	}
	w.val = 9090
	if s := w.String(); s != "9090" {
		t.Errorf("String() = %q, want \"9090\"", s)
	}
}

// ---------- applyOverrides ----------

func newTestConfig() *config.Config {
	return &config.Config{
		LED:      config.LEDConfig{Pin: 17},
		Web:      config.WebConfig{Port: 8080, ToggleRatePerSec: 5, ToggleBurst: 10},
		Defaults: config.DefaultsConfig{DebugLevel: 0},
	}
}

func TestApplyOverrides_NonZero(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, overrides{Pin: 22, Port: 9090, MockGPIO: true})
	if cfg.LED.Pin != 22 {
		t.Errorf("LED.Pin = %d, want 22", cfg.LED.Pin)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("Web.Port = %d, want 9090", cfg.Web.Port)
	}
	if !cfg.Defaults.MockGPIO {
		t.Error("MockGPIO should be forced on")
	}
}

func TestApplyOverrides_ZeroLeavesUnchanged(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, overrides{})
	if cfg.LED.Pin != 17 || cfg.Web.Port != 8080 || cfg.Defaults.MockGPIO {
		t.Errorf("zero overrides changed config: %+v", cfg)
	}
}

// ---------- run ----------

func TestRun_ShutsDownAndSwitchesOff(t *testing.T) {
	cfg := newTestConfig()
	cfg.Web.Port = 0 // any free port
	drv := gpio.NewMockDriver()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg, drv) }()

	time.Sleep(100 * time.Millisecond)
	if mode, ok := drv.Mode(17); !ok || mode != gpio.Output {
		t.Errorf("LED pin should be set up as output, got %v, %v", mode, ok)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	if lvl, _ := drv.ReadPin(17); lvl != gpio.Low {
		t.Errorf("LED pin level after shutdown = %v, want LOW", lvl)
	}
}

func TestRun_InvalidPin(t *testing.T) {
	cfg := newTestConfig()
	cfg.LED.Pin = -3
	if err := run(context.Background(), cfg, gpio.NewMockDriver()); err == nil {
		t.Error("expected error for invalid LED pin")
	}
}

// ---------- logAssets ----------

func TestLogAssets_VerboseOnly(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	defer debug.SetOutput(os.Stdout)
	defer debug.Init(debug.LevelOff)

	debug.Init(debug.LevelInfo)
	logAssets(frontend.Default())
	if buf.Len() != 0 {
		t.Errorf("info level should not list assets, got %q", buf.String())
	}

	debug.Init(debug.LevelVerbose)
	logAssets(frontend.Default())
	out := buf.String()
	for _, want := range []string{"asset ADMINPAGE_HTML (adminpage.html) -> /admin", "asset CSS_INDEX_CSS (css/index.css) -> /css/index.css"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}
