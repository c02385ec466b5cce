package formats

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"segue/types"
)

// m3uAdapter reads and writes extended M3U playlists. A #EXTINF directive
// annotates the following path line; bare path lines are accepted without
// one. All imported tracks land in a single "Imported" playlist so the
// original play order survives conversion to playlist-bearing formats.
type m3uAdapter struct{}

func (m3uAdapter) Format() Format      { return FormatM3U }
func (m3uAdapter) ContentType() string { return "audio/x-mpegurl" }
func (m3uAdapter) FileName() string    { return "library.m3u" }

func (m3uAdapter) Parse(data []byte) (*types.Library, error) {
	lib := types.NewLibrary(string(FormatM3U))

	var (
		pendingTitle  string
		pendingArtist string
		pendingDur    *int
		trackIDs      []string
	)
	reset := func() {
		pendingTitle, pendingArtist, pendingDur = "", "", nil
	}

	for _, raw := range strings.Split(string(bytes.TrimPrefix(data, utf8BOM)), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXTINF:") {
			meta := strings.TrimPrefix(line, "#EXTINF:")
			durStr, rest, found := strings.Cut(meta, ",")
			if !found {
				reset()
				continue
			}
			// A negative length (conventionally -1) means unknown.
			pendingDur = nil
			if d := parseSeconds(durStr); d != nil && *d >= 0 {
				pendingDur = d
			}
			if artist, title, ok := strings.Cut(rest, " - "); ok {
				pendingArtist, pendingTitle = artist, title
			} else {
				pendingArtist, pendingTitle = "", rest
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		title := pendingTitle
		if title == "" {
			title = path.Base(line)
		}
		track := &types.Track{
			Title:           title,
			Artist:          pendingArtist,
			FilePath:        line,
			DurationSeconds: pendingDur,
		}
		lib.AddTrack(track)
		trackIDs = append(trackIDs, track.ID)
		reset()
	}

	if len(trackIDs) > 0 {
		if _, err := lib.AddPlaylist("Imported", trackIDs); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (m3uAdapter) Export(lib *types.Library) ([]byte, error) {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, t := range lib.Tracks {
		dur := -1
		if t.DurationSeconds != nil {
			dur = *t.DurationSeconds
		}
		fmt.Fprintf(&b, "#EXTINF:%d,%s - %s\n%s\n", dur, t.Artist, t.Title, t.FilePath)
	}
	return []byte(b.String()), nil
}
