package files

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultDirName defines the folder under the user's home directory.
	DefaultDirName = ".taxi"
	// DefaultTemplate names one timesheet per month inside DefaultDirName.
	DefaultTemplate = "%Y_%m.tks"
)

// ResolveTemplate determines which timesheet template to use, defaulting
// to ~/.taxi/%Y_%m.tks. The location can be overridden by exporting
// TAXI_FILE.
func ResolveTemplate() (string, error) {
	if override, ok := os.LookupEnv("TAXI_FILE"); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return override, nil
		}
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName, DefaultTemplate), nil
}

// ExpandPath resolves a leading ~ and any environment variables in a
// configured path.
func ExpandPath(input string) (string, error) {
	expanded, err := homedir.Expand(input)
	if err != nil {
		return "", err
	}
	return os.ExpandEnv(expanded), nil
}
