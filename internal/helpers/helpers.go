// Package helpers holds small filesystem and string utilities shared by
// the root package and the download pipeline.
package helpers

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var sanRegex = regexp.MustCompile(`[\\/:*?"><|]`)

// Sanitise replaces filesystem-hostile characters in a filename.
func Sanitise(filename string) string {
	return strings.TrimSpace(sanRegex.ReplaceAllString(filename, "_"))
}

// MakeDirs creates path and any missing parents.
func MakeDirs(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) (bool, error) {
	f, err := os.Stat(path)
	if err == nil {
		return !f.IsDir(), nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ValidateOutputFile checks a produced file exists and is non-empty.
func ValidateOutputFile(path string) error {
	f, err := os.Stat(path)
	if err != nil {
		return err
	}
	if f.Size() == 0 {
		return fmt.Errorf("output file is empty: %s", path)
	}
	return nil
}

// ReadTxtFile returns the non-empty trimmed lines of a text file.
func ReadTxtFile(path string) ([]string, error) {
	var lines []string
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if scanner.Err() != nil {
		return nil, scanner.Err()
	}
	return lines, nil
}

// Contains reports whether lines holds value, case-insensitively.
func Contains(lines []string, value string) bool {
	for _, line := range lines {
		if strings.EqualFold(line, value) {
			return true
		}
	}
	return false
}

// HandleErr prints an error to stderr and optionally exits.
func HandleErr(errText string, err error, fatal bool) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, errText+"\n"+err.Error())
	if fatal {
		os.Exit(1)
	}
}
