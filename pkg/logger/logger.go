// Package logger owns the process-wide zerolog instance. Call Init once in
// main, then pass the returned logger down or fetch it again with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by Init.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn, error.
	// Unknown or empty values mean info.
	Level string
	// Pretty switches from JSON lines to a colored console writer for
	// local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu    sync.Mutex
	root  zerolog.Logger
	ready bool
)

// Init builds the root logger. The first call wins; later calls return the
// existing instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level := levelFrom(opts.Level)
	zerolog.SetGlobalLevel(level)
	root = zerolog.New(out).Level(level).With().Timestamp().Logger()
	ready = true
	return root
}

// Get returns the root logger, or a disabled logger when Init has not run.
// Library code should prefer an injected logger over Get.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		return zerolog.Nop()
	}
	return root
}

func levelFrom(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
