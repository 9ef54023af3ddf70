package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ExecutableName is the tesseract binary name searched for on PATH.
const ExecutableName = "tesseract"

// fallbackPaths lists well-known install locations per GOOS, tried after
// the PATH search fails.
var fallbackPaths = map[string][]string{
	"windows": {
		`C:\Program Files\Tesseract-OCR\tesseract.exe`,
		`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
	},
	"darwin": {
		"/opt/homebrew/bin/tesseract",
		"/usr/local/bin/tesseract",
	},
	"linux": {
		"/usr/bin/tesseract",
		"/usr/local/bin/tesseract",
	},
}

// Locate resolves the tesseract executable.
//
// Resolution order:
//  1. explicit, if non-empty. It must exist; no further search is done.
//  2. ExecutableName on PATH.
//  3. The well-known install locations for the current OS.
//
// Returns an error wrapping ErrEngineNotFound when nothing is found.
func Locate(explicit string) (string, error) {
	return locate(explicit, exec.LookPath, fileExists, fallbackPaths[runtime.GOOS])
}

func locate(explicit string, lookPath func(string) (string, error), exists func(string) bool, fallbacks []string) (string, error) {
	if explicit != "" {
		if !exists(explicit) {
			return "", fmt.Errorf("%w: %s does not exist", ErrEngineNotFound, explicit)
		}
		return explicit, nil
	}

	if path, err := lookPath(ExecutableName); err == nil {
		return path, nil
	}

	for _, candidate := range fallbacks {
		if exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: not on PATH and not in %s", ErrEngineNotFound, strings.Join(fallbacks, ", "))
}

// Probe runs "tesseract --version" and returns the version line.
// An executable that cannot be run yields an error wrapping ErrEngineNotFound.
func Probe(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %v", ErrEngineNotFound, path, err)
	}
	version := firstLine(string(out))
	if version == "" {
		return "", fmt.Errorf("%w: %s --version printed nothing", ErrEngineNotFound, path)
	}
	return version, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && !info.IsDir()
}
