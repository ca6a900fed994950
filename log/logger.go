package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"notice":  Notice,
	"":        Notice,
	"warning": Warning,
	"warn":    Warning,
	"error":   Error,
}

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu sync.Mutex

	// The formatted sink backend. Module levels are layered on top of it
	// by applyLevels.
	formattedBackend logging.Backend

	// The default verbosity and per-module overrides. They survive sink
	// changes.
	defaultLevel = Notice
	moduleLevels = make(map[string]Level)
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger. The name is used as the logger module.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	formattedBackend = logging.NewBackendFormatter(backend, format)
	applyLevels()
}

// Set the verbosity of all loggers without a module override.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	defaultLevel = level
	applyLevels()
}

// Set the verbosity of the loggers created with the given name.
func SetModuleLevel(module string, level Level) {
	mu.Lock()
	defer mu.Unlock()

	moduleLevels[module] = level
	applyLevels()
}

// Drop all module overrides.
func ResetModuleLevels() {
	mu.Lock()
	defer mu.Unlock()

	moduleLevels = make(map[string]Level)
	applyLevels()
}

// Install a fresh leveled backend carrying the configured levels. The
// go-logging backend cannot forget a module level once set, so removed
// overrides require a new backend. Must be called while holding mu.
func applyLevels() {
	if formattedBackend == nil {
		return
	}

	leveledBackend := logging.AddModuleLevel(formattedBackend)
	leveledBackend.SetLevel(toBackendLevel(defaultLevel), "")
	for module, level := range moduleLevels {
		leveledBackend.SetLevel(toBackendLevel(level), module)
	}
	logging.SetBackend(leveledBackend)
}

func toBackendLevel(level Level) logging.Level {
	if backendLevel, exists := backendLevels[level]; exists {
		return backendLevel
	}
	return logging.NOTICE
}

// Map a level name (debug, info, notice, warning, error) to a Level.
func ParseLevel(name string) (Level, error) {
	if level, exists := levelNames[strings.ToLower(strings.TrimSpace(name))]; exists {
		return level, nil
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

// Apply a comma separated list of levels. Entries are either a level name,
// which sets the default verbosity, or module=level pairs, e.g.
// "notice,bsp=debug,renderer=info".
func Configure(levels string) error {
	for _, entry := range strings.Split(levels, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		module, name := "", entry
		if sep := strings.IndexByte(entry, '='); sep != -1 {
			module, name = strings.TrimSpace(entry[:sep]), entry[sep+1:]
			if module == "" {
				return fmt.Errorf("log: missing module name in %q", entry)
			}
		}

		level, err := ParseLevel(name)
		if err != nil {
			return err
		}

		if module == "" {
			SetLevel(level)
		} else {
			SetModuleLevel(module, level)
		}
	}
	return nil
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
