package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCookies means the cookie file existed but held no usable lines.
var ErrNoCookies = errors.New("cookie file holds no cookies")

// LoadCookies reads a newline-delimited cookie file, dropping blank
// lines and surrounding whitespace. Callers must still validate the
// result with api.VerifyLogin before trusting it.
func LoadCookies(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cookies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cookies = append(cookies, line)
		}
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCookies)
	}
	return cookies, nil
}

// SaveCookies overwrites path with the newline-joined cookie set,
// creating parent directories as needed.
func SaveCookies(path string, cookies []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(cookies, "\n")), 0600)
}
