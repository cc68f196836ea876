// Package model holds the shared data types used across the CLI:
// CLI arguments, config, Bilibili API payloads and download results.
package model

import "time"

// Args defines the command-line interface.
type Args struct {
	Items      []string `arg:"positional" help:"BV ids, bilibili.com video URLs, or .txt files with one entry per line."`
	OutPath    string   `arg:"-o" help:"Where to download to. Path will be made if it doesn't already exist."`
	InfoOnly   bool     `arg:"--info" help:"Print video and part info without downloading."`
	CookiePath string   `arg:"--cookies" help:"Cookie file path. Defaults to ~/.config/bilidown/cookies.txt."`
	SubsPath   string   `arg:"--subs" help:"Subscriptions TOML file. Defaults to ~/.config/bilidown/subscriptions.toml."`
	NoColor    bool     `arg:"--no-color" help:"Disable colored output."`
}

// Config is the resolved runtime configuration.
type Config struct {
	OutPath       string
	CookiePath    string
	SubsPath      string
	InfoOnly      bool
	FfmpegNameStr string
}

// Subscription is one batch entry: a video id plus optional metadata
// overrides. The override fields are templates, see convert.ExpandTemplate.
type Subscription struct {
	Bvid   string `toml:"bvid"`
	Title  string `toml:"title,omitempty"`
	Artist string `toml:"artist,omitempty"`
	Album  string `toml:"album,omitempty"`
}

// PartResult is the outcome of one part's pipeline run. Exactly one of
// Path or Err is meaningful.
type PartResult struct {
	Page  int
	Title string
	Path  string
	Err   error
}

// ItemResult aggregates the part outcomes of one video.
type ItemResult struct {
	Bvid  string
	Parts []PartResult
	Err   error // metadata fetch or setup failure; Parts is nil when set
}

// Succeeded counts the parts that produced an output file.
func (r *ItemResult) Succeeded() int {
	n := 0
	for _, p := range r.Parts {
		if p.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the failed parts, counting a whole-item failure as one.
func (r *ItemResult) Failed() int {
	if r.Err != nil {
		return 1
	}
	n := 0
	for _, p := range r.Parts {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// WriteCounter tracks download progress for a single stream.
type WriteCounter struct {
	Total      int64
	TotalStr   string
	Downloaded int64
	Percentage int
	StartTime  int64
}

// DefaultPollInterval is the wait between QR login status polls.
const DefaultPollInterval = 2 * time.Second

// DefaultLoginTimeout is the hard ceiling for the whole QR login flow.
const DefaultLoginTimeout = 180 * time.Second
