package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oviron/bilidown/internal/api"
	"github.com/oviron/bilidown/internal/convert"
	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/wbi"
)

// copyTranscoder fakes ffmpeg by copying the input file to the output.
type copyTranscoder struct{}

func (copyTranscoder) Transcode(ctx context.Context, inPath, outPath string, profile convert.Profile) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}

func newPipelineClient(t *testing.T) *api.Client {
	t.Helper()
	keySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":{"wbi_img":{"img_url":"https://x/7cd084941338484aae1ad9425b84077c.png","sub_url":"https://x/4932caff0ff746eab6f01bf08b70ac45.png"}}}`)
	}))
	t.Cleanup(keySrv.Close)
	c := api.NewClient(http.DefaultClient, &wbi.KeyCache{Client: keySrv.Client(), URL: keySrv.URL})
	c.Now = func() time.Time { return time.Unix(1702204169, 0) }
	return c
}

// TestVideoAudio_IsolatesPartFailures runs a three part video where the
// middle part's stream download fails, and checks the failure stays
// contained, results aggregate by ordinal and no temp files leak.
func TestVideoAudio_IsolatesPartFailures(t *testing.T) {
	tmpRoot := filepath.Join(t.TempDir(), "tmproot")
	if err := os.MkdirAll(tmpRoot, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TMPDIR", tmpRoot)

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/x/player/playurl", func(w http.ResponseWriter, r *http.Request) {
		cid := r.URL.Query().Get("cid")
		fmt.Fprintf(w, `{"code":0,"data":{"dash":{"duration":10,"audio":[{"id":30280,"base_url":"%s/stream/%s","bandwidth":192000,"mime_type":"audio/mp4","codecs":"mp4a.40.2"}]}}}`,
			srv.URL, cid)
	})
	mux.HandleFunc("/stream/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/2") {
			http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
			return
		}
		w.Write([]byte("audio-bytes"))
	})

	oldBase := api.APIBase
	api.APIBase = srv.URL
	defer func() { api.APIBase = oldBase }()

	video := &model.VideoInfo{
		Bvid:  "BV1test",
		Title: "Some Show",
		Owner: model.Owner{Name: "Uploader"},
		Pages: []model.Page{
			{Cid: 1, Page: 1, Part: "One"},
			{Cid: 2, Page: 2, Part: "Two"},
			{Cid: 3, Page: 3, Part: "Three"},
		},
	}
	outDir := t.TempDir()
	deps := &Deps{Transcoder: copyTranscoder{}}

	results := VideoAudio(context.Background(), newPipelineClient(t), video, outDir, nil, deps)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	var failed, succeeded int
	for i, res := range results {
		if res.Page != i+1 {
			t.Errorf("result %d has page %d, aggregation must be by ordinal", i, res.Page)
		}
		if res.Err != nil {
			failed++
			if res.Page != 2 {
				t.Errorf("unexpected failure for part %d: %v", res.Page, res.Err)
			}
		} else {
			succeeded++
			if ok, _ := exists(res.Path); !ok {
				t.Errorf("missing output for part %d: %s", res.Page, res.Path)
			}
		}
	}
	if failed != 1 || succeeded != 2 {
		t.Fatalf("expected 1 failure and 2 successes, got %d/%d", failed, succeeded)
	}

	// Every pipeline-scoped temp dir must be gone, success or failure.
	leftovers, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("residual temp entries: %v", leftovers)
	}
}

func TestDownloadPart_NoCandidatesIsContainedFailure(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/x/player/playurl", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":{"dash":{"duration":10,"audio":[]}}}`)
	})
	oldBase := api.APIBase
	api.APIBase = srv.URL
	defer func() { api.APIBase = oldBase }()

	video := &model.VideoInfo{Bvid: "BV1test", Title: "T", Pages: []model.Page{{Cid: 1, Page: 1, Part: "One"}}}
	_, err := DownloadPart(context.Background(), newPipelineClient(t), video, &video.Pages[0], t.TempDir(), nil, &Deps{Transcoder: copyTranscoder{}})
	if err == nil {
		t.Fatal("expected error when no candidates exist")
	}
}

func TestBatch_ItemFailureDoesNotAbortSiblings(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bvid") == "BVbad" {
			fmt.Fprint(w, `{"code":-404,"message":"video not found","data":null}`)
			return
		}
		fmt.Fprintf(w, `{"code":0,"data":{"bvid":%q,"title":"Good","owner":{"name":"Up"},"pages":[{"cid":1,"page":1,"part":"Only"}]}}`,
			r.URL.Query().Get("bvid"))
	})
	mux.HandleFunc("/x/player/playurl", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"code":0,"data":{"dash":{"duration":10,"audio":[{"id":30216,"base_url":"%s/stream","bandwidth":64000,"mime_type":"audio/mp4","codecs":"mp4a.40.2"}]}}}`, srv.URL)
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	})

	oldBase := api.APIBase
	api.APIBase = srv.URL
	defer func() { api.APIBase = oldBase }()

	subs := []model.Subscription{{Bvid: "BVgood1"}, {Bvid: "BVbad"}, {Bvid: "BVgood2"}}
	results := Batch(context.Background(), newPipelineClient(t), subs, t.TempDir(), &Deps{Transcoder: copyTranscoder{}})
	if len(results) != 3 {
		t.Fatalf("expected 3 item results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("sibling items failed: %v / %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Fatal("expected metadata failure for BVbad")
	}
	if !api.IsAPIError(results[1].Err) {
		t.Fatalf("expected an api error for BVbad, got %v", results[1].Err)
	}
	if results[0].Succeeded() != 1 || results[2].Succeeded() != 1 {
		t.Fatal("expected sibling items to complete their parts")
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
