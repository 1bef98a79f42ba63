package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// The dashboard serves exactly one workbook whose path is fixed at process
// start. Validation canonicalizes that path and fails fast when it cannot be
// served, so a bad path never survives into the request path.

// ErrUnsupportedExtension indicates the workbook file extension is not supported.
var ErrUnsupportedExtension = errors.New("security: unsupported file extension")

// ErrNotFound indicates the workbook file does not exist or is not accessible.
var ErrNotFound = errors.New("security: workbook file not found")

// ErrNotAFile indicates the workbook path resolves to a directory.
var ErrNotAFile = errors.New("security: workbook path is not a file")

var allowedExts = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xltx": {},
	".xltm": {},
}

// ValidateWorkbookPath ensures the configured path refers to an existing
// regular file with a supported Excel extension. It returns the canonical
// absolute path (symlinks resolved) suitable for opening.
func ValidateWorkbookPath(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNotFound
	}

	// Extension check first for quick rejection.
	ext := strings.ToLower(filepath.Ext(input))
	if _, ok := allowedExts[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("security: abs path: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", fmt.Errorf("security: eval symlinks: %w", err)
	}

	info, err := os.Stat(real)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, real)
		}
		return "", fmt.Errorf("security: stat: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, real)
	}

	return real, nil
}
