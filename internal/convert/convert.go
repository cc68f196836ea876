// Package convert turns a downloaded audio stream into the final tagged
// file: transcoding through an external ffmpeg process and tag writing
// for the produced container.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Profile selects the target container/codec of a transcode.
type Profile int

const (
	// ProfileMP3 is libmp3lame at VBR quality 2.
	ProfileMP3 Profile = iota
	// ProfileFLAC is lossless flac at compression level 5.
	ProfileFLAC
)

// Extension returns the output filename extension for the profile.
func (p Profile) Extension() string {
	if p == ProfileFLAC {
		return ".flac"
	}
	return ".mp3"
}

// ProfileFor picks the target profile from the source stream's mime and
// codec strings: an already-compressed lossy container goes to MP3,
// anything else is kept lossless as FLAC.
func ProfileFor(mimeType, codecs string) Profile {
	s := strings.ToLower(mimeType + " " + codecs)
	for _, lossy := range []string{"aac", "mp4", "m4a", "mp3"} {
		if strings.Contains(s, lossy) {
			return ProfileMP3
		}
	}
	return ProfileFLAC
}

// Transcoder produces an output file from an input file. Implemented by
// FFmpeg; tests substitute a fake.
type Transcoder interface {
	Transcode(ctx context.Context, inPath, outPath string, profile Profile) error
}

// FFmpeg invokes the ffmpeg binary with fixed codec flags.
type FFmpeg struct {
	Bin string
}

// Transcode runs ffmpeg with the profile's codec flags, overwriting
// outPath. A non-zero exit becomes an error carrying captured stderr.
func (f *FFmpeg) Transcode(ctx context.Context, inPath, outPath string, profile Profile) error {
	args := []string{"-i", inPath}
	switch profile {
	case ProfileFLAC:
		args = append(args, "-codec:a", "flac", "-compression_level", "5")
	default:
		args = append(args, "-codec:a", "libmp3lame", "-q:a", "2")
	}
	args = append(args, "-y", outPath)

	var errBuffer bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Bin, args...)
	cmd.Stderr = &errBuffer
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w\n%s", err, errBuffer.String())
	}
	return nil
}
