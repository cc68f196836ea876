package model

// VideoInfo is the metadata returned by the view endpoint for one video.
type VideoInfo struct {
	Bvid     string  `json:"bvid"`
	Aid      int64   `json:"aid"`
	Tid      int     `json:"tid"`
	Title    string  `json:"title"`
	Desc     string  `json:"desc"`
	Duration int     `json:"duration"`
	Pic      string  `json:"pic"`
	Tname    string  `json:"tname"`
	Owner    Owner   `json:"owner"`
	Stat     Stat    `json:"stat"`
	Pages    []Page  `json:"pages"`
}

// Owner is the uploader of a video.
type Owner struct {
	Mid  int64  `json:"mid"`
	Name string `json:"name"`
	Face string `json:"face"`
}

// Stat holds a video's view counters.
type Stat struct {
	View     int `json:"view"`
	Danmaku  int `json:"danmaku"`
	Reply    int `json:"reply"`
	Favorite int `json:"favorite"`
	Coin     int `json:"coin"`
	Share    int `json:"share"`
	Like     int `json:"like"`
}

// Page is one part of a multi-part video.
type Page struct {
	Cid      int64  `json:"cid"`
	Page     int    `json:"page"`
	From     string `json:"from"`
	Part     string `json:"part"`
	Duration int    `json:"duration"`
}

// QRSession is one login attempt's code/URL pair.
type QRSession struct {
	URL       string `json:"url"`
	QrcodeKey string `json:"qrcode_key"`
}

// QRPoll is the inner status of a QR login poll response. Code is the
// poll sub-code, distinct from the outer envelope code.
type QRPoll struct {
	URL          string `json:"url"`
	RefreshToken string `json:"refresh_token"`
	Timestamp    int64  `json:"timestamp"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
}

// PlayURLData is the playurl endpoint payload.
type PlayURLData struct {
	Dash DashInfo `json:"dash"`
}

// DashInfo holds the DASH stream sets of one part. Dolby and Flac are
// extra audio lists that get merged into the candidate pool.
type DashInfo struct {
	Duration float64       `json:"duration"`
	Audio    []AudioStream `json:"audio"`
	Dolby    *DolbyInfo    `json:"dolby"`
	Flac     *FlacInfo     `json:"flac"`
}

// DolbyInfo carries Dolby Atmos audio streams when available.
type DolbyInfo struct {
	Type  int           `json:"type"`
	Audio []AudioStream `json:"audio"`
}

// FlacInfo carries the single Hi-Res lossless stream when available.
type FlacInfo struct {
	Display bool         `json:"display"`
	Audio   *AudioStream `json:"audio"`
}

// AudioStream is one candidate audio stream of a part.
type AudioStream struct {
	ID        int      `json:"id"`
	BaseURL   string   `json:"base_url"`
	BackupURL []string `json:"backup_url"`
	Bandwidth int64    `json:"bandwidth"`
	MimeType  string   `json:"mime_type"`
	Codecs    string   `json:"codecs"`
}
