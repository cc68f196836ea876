package model

import "fmt"

// Quality is the closed quality-tier ranking for audio streams. Higher
// values are better. The ranking is deliberate: a lossless tier can
// report a lower measured bitrate than a lossy one, so bandwidth is
// never used for selection.
type Quality int

const (
	QualityUnknown Quality = iota
	Quality64K
	Quality132K
	Quality192K
	QualityDolby
	QualityHiRes
)

// qualityIDs maps the platform's audio stream id codes to tiers.
var qualityIDs = map[int]Quality{
	30216: Quality64K,
	30232: Quality132K,
	30280: Quality192K,
	30250: QualityDolby,
	30251: QualityHiRes,
}

// QualityFromID returns the tier for a stream id code. Unmapped codes
// rank below every known tier.
func QualityFromID(id int) Quality {
	return qualityIDs[id]
}

// Name returns the tier's display name.
func (q Quality) Name() string {
	switch q {
	case Quality64K:
		return "64K"
	case Quality132K:
		return "132K"
	case Quality192K:
		return "192K"
	case QualityDolby:
		return "Dolby Atmos"
	case QualityHiRes:
		return "Hi-Res"
	default:
		return "Unknown"
	}
}

// Quality returns the stream's quality tier.
func (s *AudioStream) Quality() Quality {
	return QualityFromID(s.ID)
}

// QualityDescription describes the stream's tier and measured bitrate.
func (s *AudioStream) QualityDescription() string {
	return fmt.Sprintf("%s (%dkbps)", s.Quality().Name(), s.Bandwidth/1024)
}
