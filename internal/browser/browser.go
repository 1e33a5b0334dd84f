// Package browser hands article and newsletter links to the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches a URL; the TUI depends on this rather than on Open so it
// can be exercised without spawning processes.
type Opener func(rawURL string) error

// Validate accepts absolute http and https URLs only.
func Validate(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "//") {
		rawURL = "https:" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("refusing to open URL without host: %q", rawURL)
	}
	return u.String(), nil
}

// Open validates rawURL and starts the platform browser without waiting.
func Open(rawURL string) error {
	target, err := Validate(rawURL)
	if err != nil {
		return err
	}
	return command(runtime.GOOS, target).Start()
}

func command(goos, target string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		// rundll32 avoids shell interpretation of the URL
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.Command("xdg-open", target)
	}
}
