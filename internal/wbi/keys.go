package wbi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// NavURL is the public endpoint carrying the two key fragment URLs.
const NavURL = "https://api.bilibili.com/x/web-interface/nav"

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"
	referer   = "https://www.bilibili.com/"
)

// ErrNoKeys indicates the nav response was missing the key fragment URLs.
var ErrNoKeys = errors.New("nav response carried no wbi key urls")

// KeyCache fetches the key fragments once per process and memoizes the
// result. Concurrent first calls issue a single request; a fetch failure
// is terminal and propagates to every caller.
type KeyCache struct {
	Client *http.Client
	URL    string

	once sync.Once
	keys Keys
	err  error
}

// NewKeyCache returns a cache fetching from the production nav endpoint.
func NewKeyCache(client *http.Client) *KeyCache {
	return &KeyCache{Client: client, URL: NavURL}
}

type navResp struct {
	Data struct {
		WbiImg struct {
			ImgURL string `json:"img_url"`
			SubURL string `json:"sub_url"`
		} `json:"wbi_img"`
	} `json:"data"`
}

// Get returns the memoized key pair, fetching it on first access.
func (c *KeyCache) Get(ctx context.Context) (Keys, error) {
	c.once.Do(func() {
		c.keys, c.err = c.fetch(ctx)
	})
	return c.keys, c.err
}

func (c *KeyCache) fetch(ctx context.Context) (Keys, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Keys{}, err
	}
	req.Header.Add("User-Agent", userAgent)
	req.Header.Add("Referer", referer)
	do, err := client.Do(req)
	if err != nil {
		return Keys{}, fmt.Errorf("wbi key fetch: %w", err)
	}
	defer do.Body.Close()
	var obj navResp
	if err := json.NewDecoder(do.Body).Decode(&obj); err != nil {
		return Keys{}, fmt.Errorf("wbi key fetch: %w", err)
	}
	img, ok := takeFilename(obj.Data.WbiImg.ImgURL)
	if !ok {
		return Keys{}, ErrNoKeys
	}
	sub, ok := takeFilename(obj.Data.WbiImg.SubURL)
	if !ok {
		return Keys{}, ErrNoKeys
	}
	return Keys{Img: img, Sub: sub}, nil
}

// takeFilename strips a URL to its filename without extension. A URL
// with no slash or no dot in the last segment yields no result.
func takeFilename(url string) (string, bool) {
	slash := strings.LastIndexByte(url, '/')
	if slash < 0 {
		return "", false
	}
	name := url[slash+1:]
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return "", false
	}
	return name[:dot], true
}
