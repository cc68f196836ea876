package download

import "github.com/oviron/bilidown/internal/convert"

// Deps holds the pipeline's external collaborators. The transcoder is a
// capability interface so tests can substitute a fake for the ffmpeg
// subprocess.
type Deps struct {
	Transcoder convert.Transcoder

	// PrintProgress renders a progress bar line. Nil disables the live
	// bar, which is what batch runs do to keep concurrent output sane.
	PrintProgress func(percentage int, speed, downloaded, total string)
}
