package formats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segue/types"
)

const traktorFixture = `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<NML VERSION="19">
  <COLLECTION>
    <ENTRY TITLE="Track One" ARTIST="Artist One">
      <INFO BPM="128.00" MUSICAL_KEY="8A" RELEASE_DATE="2020-01-01" PLAYTIME="300" />
      <LOCATION DIR="/Music/" FILE="track1.mp3" />
    </ENTRY>
    <ENTRY TITLE="Track Two" ARTIST="Artist Two">
      <INFO BPM="140.00" MUSICAL_KEY="5A" RELEASE_DATE="2021-01-01" PLAYTIME="240" />
      <LOCATION DIR="/Music/" FILE="track2.mp3" />
    </ENTRY>
  </COLLECTION>
  <PLAYLISTS>
    <NODE NAME="ROOT" TYPE="FOLDER">
      <NODE NAME="Test Playlist" TYPE="PLAYLIST">
        <ENTRY KEY="/Music/track1.mp3"/>
        <ENTRY KEY="/Music/track2.mp3"/>
      </NODE>
    </NODE>
  </PLAYLISTS>
</NML>`

func TestTraktorParse(t *testing.T) {
	lib, err := traktorAdapter{}.Parse([]byte(traktorFixture))
	require.NoError(t, err)

	require.Len(t, lib.Tracks, 2)
	tr := lib.Tracks[0]
	assert.Equal(t, "Track One", tr.Title)
	assert.Equal(t, "Artist One", tr.Artist)
	assert.Equal(t, "/Music/track1.mp3", tr.FilePath)
	require.NotNil(t, tr.BPM)
	assert.Equal(t, 128.0, *tr.BPM)
	require.NotNil(t, tr.Key)
	assert.Equal(t, "8A", *tr.Key)
	require.NotNil(t, tr.Year)
	assert.Equal(t, 2020, *tr.Year)
	require.NotNil(t, tr.DurationSeconds)
	assert.Equal(t, 300, *tr.DurationSeconds)

	require.Len(t, lib.Playlists, 1)
	assert.Equal(t, "Test Playlist", lib.Playlists[0].Name)
	assert.Equal(t, []string{lib.Tracks[0].ID, lib.Tracks[1].ID}, lib.Playlists[0].TrackIDs)
}

func TestTraktorParseLenientFields(t *testing.T) {
	xml := `<NML VERSION="19">
  <COLLECTION>
    <ENTRY TITLE="Decimal Playtime" ARTIST="A">
      <INFO PLAYTIME="240.7" RELEASE_DATE="1999-06-15" />
      <LOCATION DIR="/d/" FILE="a.mp3" />
    </ENTRY>
    <ENTRY TITLE="Short Date" ARTIST="B">
      <INFO RELEASE_DATE="99" BPM="not a number" />
    </ENTRY>
    <ENTRY TITLE="No Children" ARTIST="C" />
  </COLLECTION>
</NML>`
	lib, err := traktorAdapter{}.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, lib.Tracks, 3)

	require.NotNil(t, lib.Tracks[0].DurationSeconds)
	assert.Equal(t, 240, *lib.Tracks[0].DurationSeconds)
	require.NotNil(t, lib.Tracks[0].Year)
	assert.Equal(t, 1999, *lib.Tracks[0].Year)

	assert.Nil(t, lib.Tracks[1].Year)
	assert.Nil(t, lib.Tracks[1].BPM)
	assert.Equal(t, "", lib.Tracks[1].FilePath)

	assert.Nil(t, lib.Tracks[2].DurationSeconds)
	assert.Nil(t, lib.Tracks[2].Key)
}

func TestTraktorPlaylistsResolveByPath(t *testing.T) {
	xml := `<NML VERSION="19">
  <COLLECTION>
    <ENTRY TITLE="Located" ARTIST="A">
      <LOCATION DIR="/m/" FILE="a.mp3" />
    </ENTRY>
    <ENTRY TITLE="Only Title" ARTIST="B" />
  </COLLECTION>
  <PLAYLISTS>
    <NODE NAME="ROOT" TYPE="FOLDER">
      <NODE NAME="Set" TYPE="playlist">
        <ENTRY KEY="/m/a.mp3"/>
        <ENTRY KEY="Only Title"/>
        <ENTRY KEY="/missing.mp3"/>
      </NODE>
    </NODE>
  </PLAYLISTS>
</NML>`
	lib, err := traktorAdapter{}.Parse([]byte(xml))
	require.NoError(t, err)

	// Entries resolve by file path, by title for tracks without a
	// location, and unknown keys are skipped. The node TYPE match is
	// case-insensitive.
	require.Len(t, lib.Playlists, 1)
	assert.Equal(t, []string{lib.Tracks[0].ID, lib.Tracks[1].ID}, lib.Playlists[0].TrackIDs)
}

func TestTraktorParseMalformed(t *testing.T) {
	_, err := traktorAdapter{}.Parse([]byte(`<NML VERSION="19"><COLLECTION>`))
	require.Error(t, err)
	var malformed *types.MalformedFileError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "traktor_nml", malformed.Format)
}

func TestTraktorRoundTrip(t *testing.T) {
	lib, err := traktorAdapter{}.Parse([]byte(traktorFixture))
	require.NoError(t, err)

	out, err := traktorAdapter{}.Export(lib)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<NML VERSION="19">`)
	assert.Contains(t, string(out), "PLAYTIME=")

	again, err := traktorAdapter{}.Parse(out)
	require.NoError(t, err)

	require.Len(t, again.Tracks, 2)
	for i := range lib.Tracks {
		assert.Equal(t, lib.Tracks[i].Title, again.Tracks[i].Title)
		assert.Equal(t, lib.Tracks[i].Artist, again.Tracks[i].Artist)
		assert.Equal(t, lib.Tracks[i].FilePath, again.Tracks[i].FilePath)
		assert.Equal(t, lib.Tracks[i].BPM, again.Tracks[i].BPM)
		assert.Equal(t, lib.Tracks[i].Key, again.Tracks[i].Key)
		assert.Equal(t, lib.Tracks[i].Year, again.Tracks[i].Year)
		assert.Equal(t, lib.Tracks[i].DurationSeconds, again.Tracks[i].DurationSeconds)
	}
	require.Len(t, again.Playlists, 1)
	assert.Equal(t, "Test Playlist", again.Playlists[0].Name)
}

func TestRekordboxToTraktorConversion(t *testing.T) {
	lib, err := rekordboxAdapter{}.Parse([]byte(rekordboxFixture))
	require.NoError(t, err)

	out, err := traktorAdapter{}.Export(lib)
	require.NoError(t, err)
	converted, err := traktorAdapter{}.Parse(out)
	require.NoError(t, err)

	require.Len(t, converted.Tracks, 2)
	assert.Equal(t, "Track One", converted.Tracks[0].Title)
	assert.Equal(t, "Artist One", converted.Tracks[0].Artist)
	assert.Equal(t, 128.0, *converted.Tracks[0].BPM)
	assert.Equal(t, 2020, *converted.Tracks[0].Year)
	assert.Equal(t, "8A", *converted.Tracks[0].Key)
	assert.Equal(t, 300, *converted.Tracks[0].DurationSeconds)
	assert.Equal(t, "file://localhost/Music/track1.mp3", converted.Tracks[0].FilePath)
	require.Len(t, converted.Playlists, 1)
}

func TestTraktorToRekordboxConversion(t *testing.T) {
	lib, err := traktorAdapter{}.Parse([]byte(traktorFixture))
	require.NoError(t, err)

	out, err := rekordboxAdapter{}.Export(lib)
	require.NoError(t, err)
	converted, err := rekordboxAdapter{}.Parse(out)
	require.NoError(t, err)

	require.Len(t, converted.Tracks, 2)
	assert.Equal(t, "Track One", converted.Tracks[0].Title)
	assert.Equal(t, 128.0, *converted.Tracks[0].BPM)
	assert.Equal(t, 2020, *converted.Tracks[0].Year)
	assert.Equal(t, "8A", *converted.Tracks[0].Key)
	assert.Equal(t, 300, *converted.Tracks[0].DurationSeconds)
	assert.Equal(t, "/Music/track1.mp3", converted.Tracks[0].FilePath)
	require.Len(t, converted.Playlists, 1)
	assert.Equal(t, "Test Playlist", converted.Playlists[0].Name)
}

func TestConversionRoundTripPreservesEverything(t *testing.T) {
	lib1, err := rekordboxAdapter{}.Parse([]byte(rekordboxFixture))
	require.NoError(t, err)

	// Rekordbox -> Traktor -> Rekordbox.
	nml, err := traktorAdapter{}.Export(lib1)
	require.NoError(t, err)
	lib2, err := traktorAdapter{}.Parse(nml)
	require.NoError(t, err)
	xml, err := rekordboxAdapter{}.Export(lib2)
	require.NoError(t, err)
	lib3, err := rekordboxAdapter{}.Parse(xml)
	require.NoError(t, err)

	require.Len(t, lib3.Tracks, 2)
	for i := range lib1.Tracks {
		assert.Equal(t, lib1.Tracks[i].Title, lib3.Tracks[i].Title)
		assert.Equal(t, lib1.Tracks[i].Artist, lib3.Tracks[i].Artist)
		assert.Equal(t, lib1.Tracks[i].FilePath, lib3.Tracks[i].FilePath)
		assert.Equal(t, lib1.Tracks[i].BPM, lib3.Tracks[i].BPM)
		assert.Equal(t, lib1.Tracks[i].Key, lib3.Tracks[i].Key)
		assert.Equal(t, lib1.Tracks[i].Year, lib3.Tracks[i].Year)
		assert.Equal(t, lib1.Tracks[i].DurationSeconds, lib3.Tracks[i].DurationSeconds)
	}
	require.Len(t, lib3.Playlists, 1)
}
