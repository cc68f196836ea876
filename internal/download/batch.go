package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/helpers"
	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/ui"
)

// VideoAudio fans the part pipeline out across every part of one video
// and waits for all of them. Results are indexed by part, never by
// completion order, and one part's failure does not abort its siblings.
func VideoAudio(ctx context.Context, c *api.Client, video *model.VideoInfo, outDir string, sub *model.Subscription, deps *Deps) []model.PartResult {
	pages := video.Pages
	results := make([]model.PartResult, len(pages))

	runDeps := deps
	if len(pages) > 1 && deps.PrintProgress != nil {
		// Concurrent parts would fight over the progress line.
		noBar := *deps
		noBar.PrintProgress = nil
		runDeps = &noBar
	}

	var wg sync.WaitGroup
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			part := &pages[i]
			path, err := DownloadPart(ctx, c, video, part, outDir, sub, runDeps)
			results[i] = model.PartResult{Page: part.Page, Title: part.Part, Path: path, Err: err}
		}(i)
	}
	wg.Wait()
	return results
}

// Batch runs the fetch+pipeline sequence for every subscription
// concurrently, catching per-item failures without aborting siblings.
func Batch(ctx context.Context, c *api.Client, subs []model.Subscription, outPath string, deps *Deps) []model.ItemResult {
	results := make([]model.ItemResult, len(subs))
	var wg sync.WaitGroup
	for i := range subs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Item(ctx, c, &subs[i], outPath, deps)
		}(i)
	}
	wg.Wait()
	return results
}

// Item fetches one video's metadata and downloads all of its parts into
// a per-item subdirectory.
func Item(ctx context.Context, c *api.Client, sub *model.Subscription, outPath string, deps *Deps) model.ItemResult {
	result := model.ItemResult{Bvid: sub.Bvid}
	video, err := api.GetVideoInfo(ctx, c, sub.Bvid)
	if err != nil {
		result.Err = fmt.Errorf("fetch video info: %w", err)
		ui.PrintError(fmt.Sprintf("%s: %v", sub.Bvid, result.Err))
		return result
	}
	ui.PrintMusic(fmt.Sprintf("%s (%s - %s)", video.Title, video.Owner.Name, video.Bvid))

	outDir := filepath.Join(outPath, helpers.Sanitise(sub.Bvid))
	if err := helpers.MakeDirs(outDir); err != nil {
		result.Err = err
		ui.PrintError(fmt.Sprintf("%s: %v", sub.Bvid, err))
		return result
	}

	result.Parts = VideoAudio(ctx, c, video, outDir, sub, deps)
	for _, part := range result.Parts {
		if part.Err != nil {
			ui.PrintError(fmt.Sprintf("%s P%d (%s): %v", sub.Bvid, part.Page, part.Title, part.Err))
		} else {
			ui.PrintSuccess(fmt.Sprintf("%s P%d -> %s", sub.Bvid, part.Page, part.Path))
		}
	}
	return result
}
