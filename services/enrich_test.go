package services

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segue/types"
)

// writeTaggedMP3 writes a file carrying a minimal ID3v2.3 tag with the given
// title and artist frames.
func writeTaggedMP3(t *testing.T, path, title, artist string) {
	t.Helper()

	var frames bytes.Buffer
	writeFrame := func(id, value string) {
		content := append([]byte{0}, []byte(value)...) // ISO-8859-1 text encoding
		frames.WriteString(id)
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(content)))
		frames.Write(size[:])
		frames.Write([]byte{0, 0})
		frames.Write(content)
	}
	writeFrame("TIT2", title)
	writeFrame("TPE1", artist)

	size := frames.Len()
	header := []byte{
		'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F),
	}

	require.NoError(t, os.WriteFile(path, append(header, frames.Bytes()...), 0o644))
}

func TestEnrichFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	writeTaggedMP3(t, path, "Embedded Title", "Embedded Artist")

	lib := types.NewLibrary("m3u")
	track := lib.AddTrack(&types.Track{Title: "", Artist: "  ", FilePath: path})

	report := NewEnrichService().Enrich(lib, "")

	assert.Equal(t, 1, report.ScannedFiles)
	assert.Equal(t, 1, report.EnrichedTracks)
	assert.Equal(t, "Embedded Title", track.Title)
	assert.Equal(t, "Embedded Artist", track.Artist)
	assert.Nil(t, track.Year, "file carries no year frame, so year stays unknown")
}

func TestEnrichNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	writeTaggedMP3(t, path, "Embedded Title", "Embedded Artist")

	lib := types.NewLibrary("m3u")
	track := lib.AddTrack(&types.Track{Title: "Curated Title", Artist: "Curated Artist", FilePath: path})

	report := NewEnrichService().Enrich(lib, "")

	assert.Equal(t, 1, report.ScannedFiles)
	assert.Equal(t, 0, report.EnrichedTracks, "nothing was missing, nothing changed")
	assert.Equal(t, "Curated Title", track.Title)
	assert.Equal(t, "Curated Artist", track.Artist)
}

func TestEnrichResolvesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "deep"), 0o755))
	writeTaggedMP3(t, filepath.Join(dir, "deep", "track.mp3"), "Rooted", "Artist")

	lib := types.NewLibrary("m3u")
	track := lib.AddTrack(&types.Track{Title: "", Artist: "", FilePath: "deep/track.mp3"})

	report := NewEnrichService().Enrich(lib, dir)

	assert.Equal(t, 1, report.EnrichedTracks)
	assert.Equal(t, "Rooted", track.Title)
}

func TestEnrichSkipsMissingAndPathlessFiles(t *testing.T) {
	lib := types.NewLibrary("m3u")
	gone := lib.AddTrack(&types.Track{Title: "", Artist: "", FilePath: "/definitely/not/here.mp3"})
	lib.AddTrack(&types.Track{Title: "", Artist: "", FilePath: ""})

	report := NewEnrichService().Enrich(lib, "")

	assert.Equal(t, 0, report.ScannedFiles)
	assert.Equal(t, 0, report.EnrichedTracks)
	assert.Equal(t, "", gone.Title)
}

func TestEnrichSkipsUntaggedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not an audio file at all"), 0o644))

	lib := types.NewLibrary("m3u")
	lib.AddTrack(&types.Track{Title: "", Artist: "", FilePath: path})

	report := NewEnrichService().Enrich(lib, "")

	assert.Equal(t, 0, report.ScannedFiles)
	assert.Equal(t, 0, report.EnrichedTracks)
}
