package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/oviron/bilidown/internal/model"
)

// ExpandTemplate substitutes the {placeholder} fields of a subscription
// metadata template with values from the video and part descriptors.
func ExpandTemplate(input string, video *model.VideoInfo, part *model.Page) string {
	r := strings.NewReplacer(
		"{title}", video.Title,
		"{part_title}", part.Part,
		"{artist}", video.Owner.Name,
		"{uploader}", video.Owner.Name,
		"{album}", video.Title,
		"{bv_id}", video.Bvid,
		"{aid}", strconv.FormatInt(video.Aid, 10),
		"{duration}", strconv.Itoa(part.Duration),
		"{page}", strconv.Itoa(part.Page),
		"{date}", time.Now().Format("2006-01-02"),
	)
	return r.Replace(input)
}

// Tags are the resolved metadata values written to an output file.
type Tags struct {
	Title   string
	Artist  string
	Album   string
	Genre   string
	Year    int
	Track   int
	Comment string
}

// ResolveTags picks tag values from the descriptors, preferring the
// subscription's override templates when present. Genre is the fixed
// platform name; the comment is the item description, only when
// non-empty.
func ResolveTags(video *model.VideoInfo, part *model.Page, sub *model.Subscription) Tags {
	tags := Tags{
		Title:  part.Part,
		Artist: video.Owner.Name,
		Album:  video.Title,
		Genre:  "Bilibili",
		Year:   time.Now().Year(),
		Track:  part.Page,
	}
	if sub != nil {
		if sub.Title != "" {
			tags.Title = ExpandTemplate(sub.Title, video, part)
		}
		if sub.Artist != "" {
			tags.Artist = ExpandTemplate(sub.Artist, video, part)
		}
		if sub.Album != "" {
			tags.Album = ExpandTemplate(sub.Album, video, part)
		}
	}
	if desc := strings.TrimSpace(video.Desc); desc != "" {
		tags.Comment = desc
	}
	return tags
}
