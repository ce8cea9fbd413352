package chafa

import (
	"context"
	"sync"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
	"github.com/termgfx/chafa-go/pkg/chafa/logging"
)

// MaxThreads bounds Config.Threads and SetThreads.
const MaxThreads = 1024

// Config holds the process-wide settings applied once by Init.
type Config struct {
	// Threads sets the number of native worker threads. Nil keeps the
	// library default; -1 selects it automatically.
	Threads *int

	// Logger receives library diagnostics. Nil discards them.
	Logger logging.Logger
}

func (c Config) validate() error {
	if c.Threads != nil {
		return validateThreads(*c.Threads)
	}
	return nil
}

func validateThreads(n int) error {
	if n != -1 && (n < 1 || n > MaxThreads) {
		return invalidf("thread count %d outside -1 or [1,%d]", n, MaxThreads)
	}
	return nil
}

// loadNative is replaced in tests.
var loadNative = backend.Load

var (
	stateMu     sync.Mutex
	initialized bool
	native      backend.Native
	loadErr     error
	log         logging.Logger = logging.Nop()

	// globalMu serializes the process-wide native functions.
	globalMu sync.Mutex
)

// Init loads the native library and applies cfg. It may be called at most
// once, before or instead of the lazy initialization performed by the first
// constructor. Later calls return ErrAlreadyInitialized, or the sticky load
// error if loading failed.
func Init(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	stateMu.Lock()
	defer stateMu.Unlock()
	if initialized {
		if loadErr != nil {
			return loadErr
		}
		return ErrAlreadyInitialized
	}
	return initLocked(cfg)
}

func initLocked(cfg Config) error {
	initialized = true
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	ctx := context.Background()
	n, err := loadNative()
	if err != nil {
		loadErr = RemapError(err)
		log.Warn(ctx, "chafa native library unavailable", "error", loadErr)
		return loadErr
	}
	native = n

	globalMu.Lock()
	defer globalMu.Unlock()
	if cfg.Threads != nil {
		n.SetNThreads(int32(*cfg.Threads))
	}
	log.Debug(ctx, "chafa initialized",
		"builtin_features", Features(n.GetBuiltinFeatures()).String(),
		"supported_features", Features(n.GetSupportedFeatures()).String(),
		"threads", n.GetNThreads(),
		"actual_threads", n.GetNActualThreads(),
	)
	return nil
}

// lib returns the loaded backend, initializing it on first use.
func lib() (backend.Native, error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if !initialized {
		_ = initLocked(Config{})
	}
	if loadErr != nil {
		return nil, loadErr
	}
	return native, nil
}

func logger() logging.Logger {
	stateMu.Lock()
	defer stateMu.Unlock()
	return log
}

// global runs fn against the backend under the process-wide lock.
func global(fn func(n backend.Native) error) error {
	n, err := lib()
	if err != nil {
		return err
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	return fn(n)
}
