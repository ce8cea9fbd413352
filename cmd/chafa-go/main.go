// Command chafa-go renders images to the terminal through the chafa
// library.
//
//	chafa-go [-config file.yaml] [-size WxH] [-mode symbols] [-colors 256] image...
//
// Settings are read from the optional YAML file, then from CHAFA_GO_*
// environment variables (a .env file in the working directory is loaded
// first) and finally from flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("chafa-go", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configPath  = flags.String("config", "", "YAML configuration file")
		size        = flags.String("size", "", "output size in cells, as WxH, Wx or xH")
		mode        = flags.String("mode", "", "pixel mode: symbols, sixels, kitty or iterm2")
		colors      = flags.String("colors", "", "color mode: truecolor, 256, 240, 16, 16/8, 8, fgbg or fgbg-bgfg")
		symbols     = flags.String("symbols", "", "symbol selectors, e.g. block+border-braille")
		showVersion = flags.Bool("version", false, "print versions and CPU features, then exit")
		debug       = flags.Bool("debug", false, "log library diagnostics to stderr")
	)
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "warning: .env: %v\n", err)
	}

	cfg, err := loadConfig(*configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	if err := cfg.applyFlags(*size, *mode, *colors, *symbols, *debug); err != nil {
		fmt.Fprintf(stderr, "flags: %v\n", err)
		return exitUsage
	}

	logger := newLogger(cfg.Debug, stderr)
	defer func() { _ = logger.Sync() }()

	if err := chafa.Init(chafa.Config{Threads: cfg.Threads, Logger: logging.NewZap(logger)}); err != nil {
		if errors.Is(err, chafa.ErrNotBuilt) {
			if *showVersion {
				printVersions(stdout)
			}
			fmt.Fprintf(stdout, "library unavailable: %v\n", err)
			return exitOK
		}
		logger.Error("initialize chafa", zap.Error(err))
		return exitError
	}

	if *showVersion {
		printVersions(stdout)
		if err := printFeatures(stdout); err != nil {
			logger.Error("query features", zap.Error(err))
			return exitError
		}
		return exitOK
	}

	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: chafa-go [flags] image...")
		flags.PrintDefaults()
		return exitUsage
	}

	destW, destH, err := cfg.size()
	if err != nil {
		fmt.Fprintf(stderr, "size: %v\n", err)
		return exitUsage
	}
	if destW < 0 && destH < 0 {
		destW, destH = terminalSize(stdout)
	}

	ti, err := detectTerminal()
	if err != nil {
		logger.Error("detect terminal", zap.Error(err))
		return exitError
	}
	defer ti.Close()

	r := &renderer{cfg: cfg, term: ti, destWidth: destW, destHeight: destH, log: logger}
	status := exitOK
	for _, path := range flags.Args() {
		if err := r.renderFile(path, stdout); err != nil {
			logger.Error("render", zap.String("path", path), zap.Error(err))
			status = exitError
		}
	}
	return status
}

// applyFlags overrides cfg with the flags that were set.
func (c *Config) applyFlags(size, mode, colors, symbols string, debug bool) error {
	if size != "" {
		c.Size = size
	}
	if mode != "" {
		if err := c.Mode.UnmarshalText([]byte(mode)); err != nil {
			return err
		}
	}
	if colors != "" {
		if err := c.Colors.UnmarshalText([]byte(colors)); err != nil {
			return err
		}
	}
	if symbols != "" {
		c.Symbols = symbols
	}
	if debug {
		c.Debug = true
	}
	return c.validate()
}

func newLogger(debug bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Named("chafa-go")
}

func printVersions(w io.Writer) {
	fmt.Fprintf(w, "chafa-go version: %s\n", chafa.WrapperVersion())
	fmt.Fprintf(w, "%s native: %s\n", chafa.NativePackage, chafa.NativeVersion())
}

func printFeatures(w io.Writer) error {
	builtin, err := chafa.BuiltinFeatures()
	if err != nil {
		return err
	}
	supported, err := chafa.SupportedFeatures()
	if err != nil {
		return err
	}
	threads, err := chafa.ActualThreads()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "builtin features: %s\n", builtin)
	fmt.Fprintf(w, "supported features: %s\n", supported)
	fmt.Fprintf(w, "threads: %d\n", threads)
	return nil
}

// terminalSize returns the output box for w: the terminal size minus one
// row for the prompt, or a width of 80 when w is not a terminal.
func terminalSize(w io.Writer) (width, height int) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && rows > 1 {
			return min(cols, chafa.MaxCanvasDimension), min(rows-1, chafa.MaxCanvasDimension)
		}
	}
	return 80, -1
}

func detectTerminal() (*chafa.TermInfo, error) {
	db, err := chafa.DefaultTermDb()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Detect(nil)
}
