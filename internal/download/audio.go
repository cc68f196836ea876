package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/convert"
	"github.com/oviron/bilidown/internal/helpers"
	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/ui"
)

// ErrNoAudioStream means a part exposed no audio candidates at all.
var ErrNoAudioStream = errors.New("no audio stream available")

// DownloadPart runs the full pipeline for one part: fetch candidates,
// select, download to a scoped temp dir, transcode, tag, validate. The
// temp dir is removed whether the pipeline succeeds or fails.
func DownloadPart(ctx context.Context, c *api.Client, video *model.VideoInfo, part *model.Page, outDir string, sub *model.Subscription, deps *Deps) (string, error) {
	playData, err := api.GetPlayURL(ctx, c, video.Bvid, part.Cid)
	if err != nil {
		return "", fmt.Errorf("fetch streams: %w", err)
	}
	best := HighestQuality(MergeAudioStreams(&playData.Dash))
	if best == nil {
		return "", ErrNoAudioStream
	}
	ui.PrintDownload(fmt.Sprintf("P%d %s [%s]", part.Page, part.Part, best.QualityDescription()))

	tmpDir, err := os.MkdirTemp("", "bilidown-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	tmpName := helpers.Sanitise(fmt.Sprintf("%s-%s_%s", video.Title, part.Part, best.QualityDescription())) + ".m4a"
	tmpPath := filepath.Join(tmpDir, tmpName)
	if isHLSStream(best) {
		err = downloadHLS(ctx, c, best.BaseURL, tmpPath)
	} else {
		err = downloadStream(ctx, c, best.BaseURL, tmpPath, deps)
	}
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	profile := convert.ProfileFor(best.MimeType, best.Codecs)
	outName := helpers.Sanitise(video.Title) + "-P" + strconv.Itoa(part.Page) + profile.Extension()
	outPath := filepath.Join(outDir, outName)
	if err := deps.Transcoder.Transcode(ctx, tmpPath, outPath, profile); err != nil {
		return "", fmt.Errorf("transcode: %w", err)
	}
	if err := convert.WriteTags(outPath, convert.ResolveTags(video, part, sub)); err != nil {
		return "", fmt.Errorf("tag: %w", err)
	}
	if err := helpers.ValidateOutputFile(outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// downloadStream saves a progressive stream URL to path, reporting
// progress through the write counter.
func downloadStream(ctx context.Context, c *api.Client, url, path string, deps *Deps) error {
	do, err := c.StreamGet(ctx, url)
	if err != nil {
		return err
	}
	defer do.Body.Close()
	if do.StatusCode != http.StatusOK && do.StatusCode != http.StatusPartialContent {
		return errors.New(do.Status)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	totalBytes := do.ContentLength
	totalStr := "unknown"
	if totalBytes > 0 {
		totalStr = humanize.Bytes(uint64(totalBytes))
	}
	counter := &writeCounterAdapter{
		wc: &model.WriteCounter{
			Total:     totalBytes,
			TotalStr:  totalStr,
			StartTime: time.Now().UnixMilli(),
		},
		deps: deps,
	}
	if _, err = io.Copy(f, io.TeeReader(do.Body, counter)); err != nil {
		return err
	}
	if deps.PrintProgress != nil {
		fmt.Println("")
	}
	return nil
}

// writeCounterAdapter wraps WriteCounter to satisfy io.Writer.
type writeCounterAdapter struct {
	wc   *model.WriteCounter
	deps *Deps
}

func (a *writeCounterAdapter) Write(p []byte) (int, error) {
	n := len(p)
	wc := a.wc
	wc.Downloaded += int64(n)
	if wc.Total > 0 {
		wc.Percentage = int(float64(wc.Downloaded) / float64(wc.Total) * 100)
	}
	var speed int64
	if elapsed := time.Now().UnixMilli() - wc.StartTime; elapsed != 0 {
		speed = wc.Downloaded * 1000 / elapsed
	}
	if a.deps.PrintProgress != nil {
		a.deps.PrintProgress(wc.Percentage, humanize.Bytes(uint64(speed)),
			humanize.Bytes(uint64(wc.Downloaded)), wc.TotalStr)
	}
	return n, nil
}
