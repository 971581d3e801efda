// Package log provides module-named, leveled loggers for the engine on top of go-logging.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level is the verbosity threshold applied to every engine logger.
type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the leveled logging surface used across the engine.
type Logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)

	Info(v ...any)
	Infof(format string, v ...any)

	Notice(v ...any)
	Noticef(format string, v ...any)

	Warning(v ...any)
	Warningf(format string, v ...any)

	Error(v ...any)
	Errorf(format string, v ...any)
}

// New creates a named logger. The name shows up in the [module] column of every line.
//
// Parameters:
//   - name: the module name, e.g. "renderer" or "frame"
//
// Returns:
//   - Logger: the named logger
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink replaces the output writer for all loggers, keeping the current level.
//
// Parameters:
//   - sink: the destination for formatted log lines
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(toLogging(currentLevel), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity for all loggers.
//
// Parameters:
//   - level: the minimum level that will be written
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	leveledBackend.SetLevel(toLogging(level), "")
}

// LevelFromVerbosity maps a count of -v flags to a level: 0 is Notice, 1 is Info, 2 or more is Debug.
//
// Parameters:
//   - count: the number of verbosity flags given
//
// Returns:
//   - Level: the matching log level
func LevelFromVerbosity(count int) Level {
	switch {
	case count >= 2:
		return Debug
	case count == 1:
		return Info
	default:
		return Notice
	}
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stdout)
}
