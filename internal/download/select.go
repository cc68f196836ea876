// Package download implements the per-part audio pipeline and the batch
// orchestration across parts and videos.
package download

import "github.com/oviron/bilidown/internal/model"

// MergeAudioStreams flattens a part's DASH audio sets into one
// candidate pool: the base list, any Dolby list and any Hi-Res single
// stream.
func MergeAudioStreams(dash *model.DashInfo) []model.AudioStream {
	streams := make([]model.AudioStream, 0, len(dash.Audio)+2)
	streams = append(streams, dash.Audio...)
	if dash.Dolby != nil {
		streams = append(streams, dash.Dolby.Audio...)
	}
	if dash.Flac != nil && dash.Flac.Audio != nil {
		streams = append(streams, *dash.Flac.Audio)
	}
	return streams
}

// HighestQuality picks the candidate with the highest quality tier.
// Unknown tier codes rank below every known tier; ties go to the
// first-encountered candidate. Returns nil only for an empty list.
func HighestQuality(streams []model.AudioStream) *model.AudioStream {
	var best *model.AudioStream
	for i := range streams {
		if best == nil || streams[i].Quality() > best.Quality() {
			best = &streams[i]
		}
	}
	return best
}
