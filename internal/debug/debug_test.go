package debug

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, lvl int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel := level
	Init(lvl)
	SetOutput(&buf)
	t.Cleanup(func() {
		Init(prevLevel)
		SetOutput(new(bytes.Buffer))
	})
	return &buf
}

func TestLevelOff_NoOutput(t *testing.T) {
	buf := captureOutput(t, LevelOff)
	Info("hello %d", 1)
	Error(errors.New("boom"))
	GPIO("WritePin", 17, true)
	if buf.Len() != 0 {
		t.Errorf("expected no output at level 0, got %q", buf.String())
	}
}

func TestInfo_Printed(t *testing.T) {
	buf := captureOutput(t, LevelInfo)
	Info("listening on %s", ":8080")
	if !strings.Contains(buf.String(), "listening on :8080") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "app=ledpanel") {
		t.Errorf("output should carry app field, got %q", buf.String())
	}
}

func TestLED_RequiresLiveLevel(t *testing.T) {
	buf := captureOutput(t, LevelInfo)
	LED(17, "on")
	if buf.Len() != 0 {
		t.Errorf("LED should be silent at info level, got %q", buf.String())
	}

	buf = captureOutput(t, LevelLive)
	LED(17, "on")
	out := buf.String()
	if !strings.Contains(out, "pin=17") || !strings.Contains(out, "state=on") {
		t.Errorf("output = %q", out)
	}
}

func TestGPIO_TraceOnly(t *testing.T) {
	buf := captureOutput(t, LevelVerbose)
	GPIO("WritePin", 4, true)
	if buf.Len() != 0 {
		t.Errorf("GPIO should be silent below trace, got %q", buf.String())
	}

	buf = captureOutput(t, LevelTrace)
	GPIO("WritePin", 4, true)
	if !strings.Contains(buf.String(), "op=WritePin") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestIsEnabled(t *testing.T) {
	captureOutput(t, LevelVerbose)
	if !IsEnabled(LevelLive) {
		t.Error("live should be enabled at verbose level")
	}
	if IsEnabled(LevelTrace) {
		t.Error("trace should not be enabled at verbose level")
	}
	if Level() != LevelVerbose {
		t.Errorf("Level() = %d, want %d", Level(), LevelVerbose)
	}
}
