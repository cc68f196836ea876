package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/auth"
	"github.com/oviron/bilidown/internal/convert"
	"github.com/oviron/bilidown/internal/download"
	"github.com/oviron/bilidown/internal/helpers"
	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/ui"
	"github.com/oviron/bilidown/internal/wbi"
)

func main() {
	if err := run(); err != nil {
		helpers.HandleErr("Run failed.", err, true)
	}
}

func run() error {
	args := parseArgs()
	if args.NoColor {
		ui.DisableColor()
	}
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	subs, err := gatherSubscriptions(args, cfg)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return errors.New("nothing to do: pass BV ids/URLs or fill the subscriptions file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient := &http.Client{}
	client := api.NewClient(httpClient, wbi.NewKeyCache(httpClient))
	if err := resolveSession(ctx, client, cfg); err != nil {
		return err
	}

	if cfg.InfoOnly {
		return printInfo(ctx, client, subs)
	}

	if err := helpers.MakeDirs(cfg.OutPath); err != nil {
		ui.PrintError("Failed to make output folder")
		return err
	}
	deps := &download.Deps{
		Transcoder:    &convert.FFmpeg{Bin: cfg.FfmpegNameStr},
		PrintProgress: ui.PrintProgress,
	}
	results := download.Batch(ctx, client, subs, cfg.OutPath, deps)

	succeeded, failed := tallyResults(results)
	if failed > 0 {
		ui.PrintWarning(fmt.Sprintf("Done: %d track(s) downloaded, %d failure(s).", succeeded, failed))
		return fmt.Errorf("%d failure(s)", failed)
	}
	ui.PrintSuccess(fmt.Sprintf("Done: %d track(s) downloaded.", succeeded))
	return nil
}

// tallyResults sums part outcomes across all items. A whole-item
// failure counts as one.
func tallyResults(results []model.ItemResult) (succeeded, failed int) {
	for i := range results {
		succeeded += results[i].Succeeded()
		failed += results[i].Failed()
	}
	return succeeded, failed
}

// gatherSubscriptions resolves the run's work list: positional ids win,
// the subscriptions file is the fallback.
func gatherSubscriptions(args *model.Args, cfg *model.Config) ([]model.Subscription, error) {
	if len(args.Items) > 0 {
		return processItems(args.Items)
	}
	return loadSubscriptions(cfg.SubsPath)
}

// resolveSession loads and validates stored credentials, falling back
// to a fresh QR login when they are missing or rejected.
func resolveSession(ctx context.Context, client *api.Client, cfg *model.Config) error {
	if cookies, err := auth.LoadCookies(cfg.CookiePath); err == nil {
		client.SetCookies(cookies)
		ok, probeErr := api.VerifyLogin(ctx, client)
		if probeErr == nil && ok {
			ui.PrintInfo("Using stored credentials from " + cfg.CookiePath)
			return nil
		}
		// Rejected or unverifiable cookies are treated like none at all.
		client.SetCookies(nil)
		ui.PrintWarning("Stored credentials were rejected, starting fresh login.")
	}

	cookies, err := auth.NewSession(client).Run(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	client.SetCookies(cookies)
	if err := auth.SaveCookies(cfg.CookiePath, cookies); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	ui.PrintSuccess("Credentials saved to " + cfg.CookiePath)
	return nil
}

// printInfo fetches and prints metadata without downloading anything.
func printInfo(ctx context.Context, client *api.Client, subs []model.Subscription) error {
	var firstErr error
	for i := range subs {
		video, err := api.GetVideoInfo(ctx, client, subs[i].Bvid)
		if err != nil {
			ui.PrintError(fmt.Sprintf("%s: %v", subs[i].Bvid, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ui.PrintMusic(fmt.Sprintf("%s (%s)", video.Title, video.Bvid))
		fmt.Printf("  Uploader: %s\n  Views: %d\n  Duration: %ds\n", video.Owner.Name, video.Stat.View, video.Duration)
		if video.Desc != "" {
			fmt.Printf("  Description: %s\n", video.Desc)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"P", "Title", "Duration"})
		for _, page := range video.Pages {
			table.Append([]string{strconv.Itoa(page.Page), page.Part, strconv.Itoa(page.Duration) + "s"})
		}
		table.Render()
	}
	return firstErr
}
