package gpio

import (
	"errors"
	"testing"
)

func TestNewDriver_Mock(t *testing.T) {
	d, err := NewDriver(true)
	if err != nil {
		t.Fatalf("NewDriver(true): %v", err)
	}
	if _, ok := d.(*MockDriver); !ok {
		t.Errorf("NewDriver(true) = %T, want *MockDriver", d)
	}
}

func TestMockDriver_ReadBackWrites(t *testing.T) {
	d := NewMockDriver()
	if err := d.SetupPin(17, Output); err != nil {
		t.Fatalf("SetupPin: %v", err)
	}
	if lvl, _ := d.ReadPin(17); lvl != Low {
		t.Errorf("initial level = %v, want LOW", lvl)
	}
	if err := d.WritePin(17, High); err != nil {
		t.Fatalf("WritePin: %v", err)
	}
	if lvl, _ := d.ReadPin(17); lvl != High {
		t.Errorf("level after write = %v, want HIGH", lvl)
	}
	if mode, ok := d.Mode(17); !ok || mode != Output {
		t.Errorf("Mode(17) = %v, %v; want Output, true", mode, ok)
	}
}

func TestMockDriver_UnknownMode(t *testing.T) {
	d := NewMockDriver()
	if err := d.SetupPin(4, PinMode(42)); err == nil {
		t.Error("expected error for unknown pin mode")
	}
}

func TestMockDriver_Closed(t *testing.T) {
	d := NewMockDriver()
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.WritePin(17, High); !errors.Is(err, ErrClosed) {
		t.Errorf("WritePin after Close = %v, want ErrClosed", err)
	}
	if _, err := d.ReadPin(17); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadPin after Close = %v, want ErrClosed", err)
	}
}

func TestLevel_String(t *testing.T) {
	if High.String() != "HIGH" || Low.String() != "LOW" {
		t.Errorf("String() = %q/%q", High.String(), Low.String())
	}
}
