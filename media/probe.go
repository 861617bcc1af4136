// Package media inspects media files without involving the playback
// engine. The editor uses it to validate drops before loading them and to
// enumerate subtitle tracks for the track picker.
package media

import (
	"fmt"
	"time"

	"github.com/asticode/go-astiav"
)

// SubtitleTrack identifies one embedded subtitle stream. ID is the 1-based
// index the playback engine expects when selecting a track.
type SubtitleTrack struct {
	ID       int
	Language string
	Title    string
}

// Info is the static description of a media file.
type Info struct {
	Duration   time.Duration
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	HasAudio   bool
	Subtitles  []SubtitleTrack
}

// Probe opens the file at path and extracts stream information. The file
// must contain at least one video stream.
func Probe(path string) (*Info, error) {
	formatCtx := astiav.AllocFormatContext()
	if formatCtx == nil {
		return nil, fmt.Errorf("failed to allocate format context")
	}
	defer formatCtx.Free()

	if err := formatCtx.OpenInput(path, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer formatCtx.CloseInput()

	if err := formatCtx.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("failed to find stream info: %w", err)
	}

	info := &Info{}
	subIdx := 0
	haveVideo := false

	for _, stream := range formatCtx.Streams() {
		params := stream.CodecParameters()
		switch params.MediaType() {
		case astiav.MediaTypeVideo:
			if !haveVideo {
				haveVideo = true
				info.Width = params.Width()
				info.Height = params.Height()
				info.VideoCodec = params.CodecID().Name()
			}
		case astiav.MediaTypeAudio:
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = params.CodecID().Name()
			}
		case astiav.MediaTypeSubtitle:
			subIdx++
			track := SubtitleTrack{ID: subIdx}
			if meta := stream.Metadata(); meta != nil {
				if e := meta.Get("language", nil, astiav.NewDictionaryFlags()); e != nil {
					track.Language = e.Value()
				}
				if e := meta.Get("title", nil, astiav.NewDictionaryFlags()); e != nil {
					track.Title = e.Value()
				}
			}
			info.Subtitles = append(info.Subtitles, track)
		}
	}

	if !haveVideo {
		return nil, fmt.Errorf("no video stream found")
	}

	// Container duration is in AV_TIME_BASE units (microseconds).
	if d := formatCtx.Duration(); d > 0 {
		info.Duration = time.Duration(d) * time.Microsecond
	}

	return info, nil
}
