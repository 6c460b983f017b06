package led

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/ledpanel/internal/debug"
	"github.com/cjeanneret/ledpanel/internal/hw/gpio"
)

// State is the logical LED state as reported to clients.
type State string

const (
	StateOff State = "off"
	StateOn  State = "on"
)

// LED drives a single LED wired to one GPIO pin.
//
// With activeLow the LED lights when the pin is LOW (LED between 3.3V and the pin).
type LED struct {
	gpio      gpio.Driver
	pin       int
	activeLow bool

	mu sync.Mutex
	on bool
}

// New configures pin as output and switches the LED off.
func New(g gpio.Driver, pin int, activeLow bool) (*LED, error) {
	if pin < 0 {
		return nil, fmt.Errorf("invalid LED pin %d", pin)
	}
	if err := g.SetupPin(pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("setup LED pin %d: %w", pin, err)
	}
	l := &LED{gpio: g, pin: pin, activeLow: activeLow}
	if err := l.write(false); err != nil {
		return nil, fmt.Errorf("switch LED off: %w", err)
	}
	return l, nil
}

// level maps a logical state to the electrical level of the pin.
func (l *LED) level(on bool) gpio.Level {
	return gpio.Level(on != l.activeLow)
}

func (l *LED) write(on bool) error {
	return l.gpio.WritePin(l.pin, l.level(on))
}

// Set switches the LED on or off. On failure the recorded state is unchanged.
func (l *LED) Set(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setLocked(on)
}

func (l *LED) setLocked(on bool) error {
	if err := l.write(on); err != nil {
		return fmt.Errorf("write LED pin %d: %w", l.pin, err)
	}
	l.on = on
	debug.LED(l.pin, string(stateOf(on)))
	return nil
}

// On switches the LED on.
func (l *LED) On() error { return l.Set(true) }

// Off switches the LED off.
func (l *LED) Off() error { return l.Set(false) }

// Toggle inverts the LED state.
func (l *LED) Toggle() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setLocked(!l.on)
}

// IsOn reports whether the LED is lit.
func (l *LED) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// State returns StateOn or StateOff.
func (l *LED) State() State {
	return stateOf(l.IsOn())
}

// Pin returns the GPIO pin (BCM numbering).
func (l *LED) Pin() int { return l.pin }

func stateOf(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}
