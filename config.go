package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexflint/go-arg"

	"github.com/oviron/bilidown/internal/helpers"
	"github.com/oviron/bilidown/internal/model"
)

var bvRegexStrings = []string{
	`^(BV[0-9A-Za-z]{10})$`,
	`^https?://www\.bilibili\.com/video/(BV[0-9A-Za-z]{10})(?:[/?].*)?$`,
	`^https?://b23\.tv/(BV[0-9A-Za-z]{10})$`,
}

func parseArgs() *model.Args {
	var args model.Args
	arg.MustParse(&args)
	return &args
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "bilidown")
}

func resolveConfig(args *model.Args) (*model.Config, error) {
	cfg := &model.Config{
		OutPath:    args.OutPath,
		CookiePath: args.CookiePath,
		SubsPath:   args.SubsPath,
		InfoOnly:   args.InfoOnly,
	}
	if cfg.OutPath == "" {
		cfg.OutPath = "Bilibili downloads"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = filepath.Join(defaultConfigDir(), "cookies.txt")
	}
	if cfg.SubsPath == "" {
		cfg.SubsPath = filepath.Join(defaultConfigDir(), "subscriptions.toml")
	}
	ffmpegName, err := resolveFfmpegBinary()
	if err != nil {
		return nil, err
	}
	cfg.FfmpegNameStr = ffmpegName
	return cfg, nil
}

func resolveFfmpegBinary() (string, error) {
	// Local ./ffmpeg first, then next to the executable, then PATH.
	candidates := []string{"./ffmpeg"}
	if exePath, err := os.Executable(); err == nil {
		exeLocal := filepath.Join(filepath.Dir(exePath), "ffmpeg")
		if exeLocal != "./ffmpeg" {
			candidates = append(candidates, exeLocal)
		}
	}
	for _, candidate := range candidates {
		if ok, _ := helpers.FileExists(candidate); ok {
			return candidate, nil
		}
	}
	if resolved, err := exec.LookPath("ffmpeg"); err == nil {
		return resolved, nil
	}
	return "", errors.New("ffmpeg not found (place an ffmpeg binary next to bilidown or install it into PATH)")
}

// checkItem extracts a BV id from a bare id or a known URL shape.
func checkItem(item string) (string, bool) {
	for _, regexStr := range bvRegexStrings {
		if match := regexp.MustCompile(regexStr).FindStringSubmatch(item); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// processItems expands .txt list files and normalizes ids/URLs into a
// deduplicated subscription list.
func processItems(items []string) ([]model.Subscription, error) {
	var (
		subs     []model.Subscription
		txtPaths []string
	)
	// BV ids are case-sensitive, so dedupe by exact match.
	seen := make(map[string]bool)
	add := func(raw string) error {
		raw = strings.TrimSuffix(raw, "/")
		bvid, ok := checkItem(raw)
		if !ok {
			return fmt.Errorf("unrecognized item: %s", raw)
		}
		if !seen[bvid] {
			seen[bvid] = true
			subs = append(subs, model.Subscription{Bvid: bvid})
		}
		return nil
	}
	for _, item := range items {
		if strings.HasSuffix(item, ".txt") && !helpers.Contains(txtPaths, item) {
			lines, err := helpers.ReadTxtFile(item)
			if err != nil {
				return nil, err
			}
			for _, line := range lines {
				if err := add(line); err != nil {
					return nil, err
				}
			}
			txtPaths = append(txtPaths, item)
			continue
		}
		if err := add(item); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

type subsFile struct {
	Sub []model.Subscription `toml:"sub"`
}

// loadSubscriptions reads the TOML subscriptions file. A missing file
// is not an error, it just yields no entries.
func loadSubscriptions(path string) ([]model.Subscription, error) {
	var file subsFile
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse subscriptions file %s: %w", path, err)
	}
	for i, sub := range file.Sub {
		if strings.TrimSpace(sub.Bvid) == "" {
			return nil, fmt.Errorf("subscriptions file %s: entry %d has no bvid", path, i+1)
		}
	}
	return file.Sub, nil
}
