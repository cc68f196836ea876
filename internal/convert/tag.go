package convert

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis/v2"
	flac "github.com/go-flac/go-flac/v2"
)

// WriteTags writes the resolved tags into the output file. The tag
// container type follows the file extension: ID3v2 for .mp3, Vorbis
// comments for .flac. An existing container is kept and updated.
func WriteTags(path string, tags Tags) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return writeFlacTags(path, tags)
	default:
		return writeID3Tags(path, tags)
	}
}

func writeID3Tags(path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.SetGenre(tags.Genre)
	tag.SetYear(strconv.Itoa(tags.Year))
	tag.AddTextFrame(tag.CommonID("Track number/Position in set"),
		tag.DefaultEncoding(), strconv.Itoa(tags.Track))
	if tags.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "und",
			Text:     tags.Comment,
		})
	}
	return tag.Save()
}

func writeFlacTags(path string, tags Tags) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	cmt, idx := existingVorbisComment(f)
	if cmt == nil {
		cmt = flacvorbis.New()
	}
	fields := []struct {
		name  string
		value string
	}{
		{flacvorbis.FIELD_TITLE, tags.Title},
		{flacvorbis.FIELD_ARTIST, tags.Artist},
		{flacvorbis.FIELD_ALBUM, tags.Album},
		{flacvorbis.FIELD_GENRE, tags.Genre},
		{flacvorbis.FIELD_DATE, strconv.Itoa(tags.Year)},
		{flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(tags.Track)},
	}
	if tags.Comment != "" {
		fields = append(fields, struct {
			name  string
			value string
		}{flacvorbis.FIELD_DESCRIPTION, tags.Comment})
	}
	// ffmpeg maps source metadata into the output, so the parsed
	// comment may already carry these fields. Writing replaces them.
	removeFields(cmt, flacvorbis.FIELD_TITLE, flacvorbis.FIELD_ARTIST,
		flacvorbis.FIELD_ALBUM, flacvorbis.FIELD_GENRE, flacvorbis.FIELD_DATE,
		flacvorbis.FIELD_TRACKNUMBER, flacvorbis.FIELD_DESCRIPTION)
	for _, field := range fields {
		if err := cmt.Add(field.name, field.value); err != nil {
			return fmt.Errorf("set flac tag %s: %w", field.name, err)
		}
	}

	block := cmt.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}

// removeFields drops every comment entry whose field name matches one
// of names. Vorbis field names compare case-insensitively.
func removeFields(cmt *flacvorbis.MetaDataBlockVorbisComment, names ...string) {
	kept := cmt.Comments[:0]
	for _, comment := range cmt.Comments {
		name, _, _ := strings.Cut(comment, "=")
		drop := false
		for _, n := range names {
			if strings.EqualFold(name, n) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, comment)
		}
	}
	cmt.Comments = kept
}

func existingVorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int) {
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err == nil {
				return cmt, i
			}
		}
	}
	return nil, -1
}
