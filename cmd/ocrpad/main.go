package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ironsheep/ocrpad/internal/config"
	"github.com/ironsheep/ocrpad/internal/gui"
	"github.com/ironsheep/ocrpad/internal/logging"
	"github.com/ironsheep/ocrpad/internal/ocr"
	"github.com/ironsheep/ocrpad/internal/pipeline"
	"github.com/ironsheep/ocrpad/internal/server"
	"github.com/ironsheep/ocrpad/internal/style"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "gui"
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "ocrpad %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(stdout, "  Library backend: %v\n", ocr.LibraryAvailable)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "recognize", "serve", "gui":
			cmd, args = args[0], args[1:]
		}
	}

	fs := flag.NewFlagSet("ocrpad "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	themeName := "light"
	if cmd == "gui" {
		fs.StringVar(&themeName, "theme", themeName, "initial theme: light or dark")
	}

	cfg, rest, err := config.Parse(fs, args, os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "ocrpad: %v\n", err)
		return 2
	}

	if cmd == "recognize" && len(rest) != 1 {
		fmt.Fprintln(stderr, "usage: ocrpad recognize [flags] <image>")
		return 2
	}

	log, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ocrpad: %v\n", err)
		return 2
	}
	log.WithFields(logging.Fields{"version": Version, "commit": GitCommit, "command": cmd}).Debug("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := pipeline.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("OCR engine unavailable")
		fmt.Fprintf(stderr, "ocrpad: %v\n", err)
		if errors.Is(err, ocr.ErrEngineNotFound) {
			fmt.Fprintln(stderr, "Install Tesseract or pass --tesseract /path/to/tesseract.")
		}
		return 1
	}
	defer pipe.Close()

	switch cmd {
	case "recognize":
		return recognize(ctx, pipe, rest[0], cfg, stdout, stderr)
	case "serve":
		srv := server.New(pipe, os.Stdin, stdout, log)
		srv.SetVersion(Version)
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("server error")
			return 1
		}
		return 0
	default:
		theme, err := style.ParseTheme(themeName)
		if err != nil {
			fmt.Fprintf(stderr, "ocrpad: %v\n", err)
			return 2
		}
		gui.Run(fyneapp.NewWithID(gui.AppID), pipe, gui.Options{Theme: theme, Timeout: cfg.Timeout, Log: log})
		return 0
	}
}

func recognize(ctx context.Context, pipe *pipeline.Pipeline, path string, cfg config.Config, stdout, stderr io.Writer) int {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	text, err := pipe.Run(ctx, path)
	if err != nil {
		fmt.Fprintf(stderr, "ocrpad: %v\n", err)
		return 1
	}

	fmt.Fprint(stdout, text)
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ocrpad - recognize printed text in images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ocrpad [flags]                      Open the desktop window")
	fmt.Fprintln(w, "  ocrpad recognize [flags] <image>    Print the text of one image to stdout")
	fmt.Fprintln(w, "  ocrpad serve [flags]                Serve MCP tools over stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags (all subcommands):")
	fmt.Fprintln(w, "  --backend exec|library   OCR backend (default exec)")
	fmt.Fprintln(w, "  --tesseract PATH         tesseract executable (default: search PATH)")
	fmt.Fprintln(w, "  --tessdata DIR           directory with *.traineddata files")
	fmt.Fprintln(w, "  --lang CODE              language (default tur)")
	fmt.Fprintln(w, "  --oem N, --psm N         engine and page segmentation modes (default 3, 3)")
	fmt.Fprintln(w, "  --preprocessor go|opencv image preprocessor (default go)")
	fmt.Fprintln(w, "  --timeout DURATION       per-request limit, 0 for none")
	fmt.Fprintln(w, "  --log-level LEVEL        debug, info, warn, error")
	fmt.Fprintln(w, "  --theme light|dark       initial theme (desktop only)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  OCRPAD_LOG_LEVEL=debug    Enable debug logging")
}
