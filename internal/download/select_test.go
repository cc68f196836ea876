package download

import (
	"testing"

	"github.com/oviron/bilidown/internal/model"
)

func TestHighestQuality_PicksByTierNotBitrate(t *testing.T) {
	streams := []model.AudioStream{
		{ID: 99999, Bandwidth: 999999}, // unranked, huge bitrate
		{ID: 30232, Bandwidth: 132000},
		{ID: 30251, Bandwidth: 100000}, // Hi-Res reports lower bitrate
		{ID: 30280, Bandwidth: 192000},
	}
	best := HighestQuality(streams)
	if best == nil || best.ID != 30251 {
		t.Fatalf("expected Hi-Res stream, got %+v", best)
	}
}

func TestHighestQuality_EmptyList(t *testing.T) {
	if got := HighestQuality(nil); got != nil {
		t.Fatalf("expected nil for empty list, got %+v", got)
	}
}

func TestHighestQuality_TieGoesToFirst(t *testing.T) {
	streams := []model.AudioStream{
		{ID: 30280, BaseURL: "first"},
		{ID: 30280, BaseURL: "second"},
	}
	best := HighestQuality(streams)
	if best.BaseURL != "first" {
		t.Fatalf("expected first candidate on tie, got %s", best.BaseURL)
	}
}

func TestHighestQuality_AllUnknownStillSelects(t *testing.T) {
	streams := []model.AudioStream{
		{ID: 11111, BaseURL: "a"},
		{ID: 22222, BaseURL: "b"},
	}
	best := HighestQuality(streams)
	if best == nil || best.BaseURL != "a" {
		t.Fatalf("expected first unknown candidate, got %+v", best)
	}
}

func TestMergeAudioStreams(t *testing.T) {
	dash := &model.DashInfo{
		Audio: []model.AudioStream{{ID: 30216}, {ID: 30280}},
		Dolby: &model.DolbyInfo{Type: 2, Audio: []model.AudioStream{{ID: 30250}}},
		Flac:  &model.FlacInfo{Display: true, Audio: &model.AudioStream{ID: 30251}},
	}
	merged := MergeAudioStreams(dash)
	if len(merged) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(merged))
	}
	if best := HighestQuality(merged); best.ID != 30251 {
		t.Fatalf("expected Hi-Res after merge, got %d", best.ID)
	}
}

func TestMergeAudioStreams_BaseOnly(t *testing.T) {
	dash := &model.DashInfo{Audio: []model.AudioStream{{ID: 30216}}}
	if got := len(MergeAudioStreams(dash)); got != 1 {
		t.Fatalf("expected 1 candidate, got %d", got)
	}
}
