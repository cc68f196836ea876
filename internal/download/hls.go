package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/grafov/m3u8"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/model"
)

// isHLSStream reports whether a candidate points at an HLS playlist
// rather than a progressive file.
func isHLSStream(s *model.AudioStream) bool {
	if strings.Contains(strings.ToLower(s.MimeType), "mpegurl") {
		return true
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, ".m3u8")
}

// downloadHLS saves an HLS stream to path. A master playlist is
// resolved to its highest-bandwidth variant first, then the media
// playlist's segments are fetched in order and concatenated.
func downloadHLS(ctx context.Context, c *api.Client, manURL, path string) error {
	playlist, base, err := fetchPlaylist(ctx, c, manURL)
	if err != nil {
		return err
	}
	if master, ok := playlist.(*m3u8.MasterPlaylist); ok {
		if len(master.Variants) == 0 {
			return errors.New("hls master playlist has no variants")
		}
		sort.Slice(master.Variants, func(x, y int) bool {
			return master.Variants[x].Bandwidth > master.Variants[y].Bandwidth
		})
		variantURL, err := resolveRef(base, master.Variants[0].URI)
		if err != nil {
			return err
		}
		playlist, base, err = fetchPlaylist(ctx, c, variantURL)
		if err != nil {
			return err
		}
	}
	media, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok {
		return errors.New("unexpected hls playlist type")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, seg := range media.Segments {
		if seg == nil {
			continue
		}
		segURL, err := resolveRef(base, seg.URI)
		if err != nil {
			return err
		}
		if err := appendSegment(ctx, c, segURL, f); err != nil {
			return fmt.Errorf("segment %s: %w", seg.URI, err)
		}
	}
	return nil
}

func fetchPlaylist(ctx context.Context, c *api.Client, rawURL string) (m3u8.Playlist, *url.URL, error) {
	do, err := c.StreamGet(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	defer do.Body.Close()
	if do.StatusCode != http.StatusOK && do.StatusCode != http.StatusPartialContent {
		return nil, nil, errors.New(do.Status)
	}
	playlist, _, err := m3u8.DecodeFrom(do.Body, true)
	if err != nil {
		return nil, nil, err
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}
	return playlist, base, nil
}

func resolveRef(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

func appendSegment(ctx context.Context, c *api.Client, segURL string, w io.Writer) error {
	do, err := c.StreamGet(ctx, segURL)
	if err != nil {
		return err
	}
	defer do.Body.Close()
	if do.StatusCode != http.StatusOK && do.StatusCode != http.StatusPartialContent {
		return errors.New(do.Status)
	}
	_, err = io.Copy(w, do.Body)
	return err
}
