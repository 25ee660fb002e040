package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommands maps GOOS to the launcher argv; the URL is appended.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser opens url in the default system browser without waiting for it.
func OpenBrowser(url string) error {
	argv, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func browserCommand(goos, url string) ([]string, error) {
	launcher, ok := browserCommands[goos]
	if !ok {
		return nil, fmt.Errorf("%w: no browser launcher for %s", ErrServiceUnavailable, goos)
	}
	return append(append([]string{}, launcher...), url), nil
}
