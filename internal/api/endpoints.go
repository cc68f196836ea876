package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/oviron/bilidown/internal/model"
	"github.com/oviron/bilidown/internal/wbi"
)

// Endpoint hosts. Vars so tests can point them at a local server.
var (
	APIBase      = "https://api.bilibili.com"
	PassportBase = "https://passport.bilibili.com"
)

// GetVideoInfo fetches a video's metadata and part list (signed).
func GetVideoInfo(ctx context.Context, c *Client, bvid string) (*model.VideoInfo, error) {
	resp, err := c.SignedGet(ctx, APIBase+"/x/web-interface/view", []wbi.Param{{Key: "bvid", Value: bvid}})
	if err != nil {
		return nil, err
	}
	var info model.VideoInfo
	if err := decodeEnvelope(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPlayURL fetches the DASH stream sets for one part (signed).
// fnval 4048 requests every DASH stream, Dolby and Hi-Res included.
func GetPlayURL(ctx context.Context, c *Client, bvid string, cid int64) (*model.PlayURLData, error) {
	params := []wbi.Param{
		{Key: "bvid", Value: bvid},
		{Key: "cid", Value: strconv.FormatInt(cid, 10)},
		{Key: "fnval", Value: "4048"},
		{Key: "fnver", Value: "0"},
		{Key: "otype", Value: "json"},
	}
	resp, err := c.SignedGet(ctx, APIBase+"/x/player/playurl", params)
	if err != nil {
		return nil, err
	}
	var data model.PlayURLData
	if err := decodeEnvelope(resp, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GenerateQR requests a fresh login URL / one-time key pair.
func GenerateQR(ctx context.Context, c *Client) (*model.QRSession, error) {
	resp, err := c.Get(ctx, PassportBase+"/x/passport-login/web/qrcode/generate", nil)
	if err != nil {
		return nil, err
	}
	var session model.QRSession
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// PollQR polls a login attempt once. It returns the poll sub-status and
// every set-cookie value observed on the response; the cookies only
// matter on the confirmed sub-code.
func PollQR(ctx context.Context, c *Client, qrcodeKey string) (*model.QRPoll, []string, error) {
	resp, err := c.Get(ctx, PassportBase+"/x/passport-login/web/qrcode/poll",
		[]wbi.Param{{Key: "qrcode_key", Value: qrcodeKey}})
	if err != nil {
		return nil, nil, err
	}
	cookies := resp.Header.Values("Set-Cookie")
	var poll model.QRPoll
	if err := decodeEnvelope(resp, &poll); err != nil {
		return nil, nil, err
	}
	return &poll, cookies, nil
}

// VerifyLogin probes whether the client's cookies are a live session.
// A negative or malformed response reports false rather than an error;
// only transport failures propagate.
func VerifyLogin(ctx context.Context, c *Client) (bool, error) {
	resp, err := c.Get(ctx, APIBase+"/x/web-interface/nav", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var obj struct {
		Code int `json:"code"`
		Data struct {
			IsLogin bool `json:"isLogin"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return false, nil
	}
	return obj.Code == 0 && obj.Data.IsLogin, nil
}

// IsAPIError reports whether err is an application-level API error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
