package debug

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (startup, listen address)
	LevelLive    = 2 // Live info (LED switched, clients connected)
	LevelVerbose = 3 // Verbose (config details, requests)
	LevelTrace   = 4 // Trace (GPIO, very low level)
)

var (
	level  int
	logger = newLogger(os.Stdout)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	l.SetLevel(logrus.TraceLevel)
	return l
}

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (startup, listen address)
// 2 = live info (LED switched on/off, stream clients)
// 3 = verbose (configuration, individual requests)
// 4 = trace (GPIO, very low level)
func Init(debugLevel int) {
	level = debugLevel
}

// SetOutput redirects log output, e.g. to io.MultiWriter(os.Stdout, broadcaster).
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

func entry() *logrus.Entry {
	return logger.WithField("app", "ledpanel")
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo {
		entry().Infof(format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelInfo {
		entry().Info("═══════════════════════════════════════")
		entry().Infof("  %s", title)
		entry().Info("═══════════════════════════════════════")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo {
		entry().WithField(name, value).Info("value")
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive {
		entry().WithField("stage", "live").Infof(format, args...)
	}
}

// LED prints an LED state change (level 2).
func LED(pin int, state string) {
	if level >= LevelLive {
		entry().WithFields(logrus.Fields{"pin": pin, "state": state}).Info("LED switched")
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose {
		entry().Debugf(format, args...)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose {
		entry().Debugf("%s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose {
		entry().Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		entry().Debugf("  %s", name)
		entry().Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose {
		entry().WithField("step", num).Debug(description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace {
		entry().Tracef(format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace {
		entry().WithFields(logrus.Fields{"op": operation, "pin": pin, "value": value}).Trace("gpio")
	}
}

// --- General functions ---

// Error prints an error (level 1+).
func Error(err error) {
	if level >= LevelInfo {
		entry().WithError(err).Error("error")
	}
}
