package formats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeratoParseFlexibleHeaders(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"standard header", "Artist,Title,File,Key,BPM,Year\nArtist One,First Track,/music/first.mp3,8A,128,2020\n"},
		{"alternate spellings", "Name,Artist,Location,Key,BPM,Year\nFirst Track,Artist One,/music/first.mp3,8A,128,2020\n"},
		{"lower case header", "artist,title,file,key,bpm,year\nArtist One,First Track,/music/first.mp3,8A,128,2020\n"},
		{"reordered columns", "Year,BPM,Key,File,Title,Artist\n2020,128,8A,/music/first.mp3,First Track,Artist One\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := seratoAdapter{}.Parse([]byte(tt.content))
			require.NoError(t, err)
			require.Len(t, lib.Tracks, 1)
			tr := lib.Tracks[0]
			assert.Equal(t, "First Track", tr.Title)
			assert.Equal(t, "Artist One", tr.Artist)
			assert.Equal(t, "/music/first.mp3", tr.FilePath)
			require.NotNil(t, tr.Key)
			assert.Equal(t, "8A", *tr.Key)
			require.NotNil(t, tr.BPM)
			assert.Equal(t, 128.0, *tr.BPM)
			require.NotNil(t, tr.Year)
			assert.Equal(t, 2020, *tr.Year)
		})
	}
}

func TestSeratoParseLenientNumerics(t *testing.T) {
	content := "Title,Artist,File,BPM,Year\n" +
		"Bad Numbers,DJ,/a.mp3,not-a-bpm,not-a-year\n" +
		"Comma Decimal,DJ,/b.mp3,\"127,5\",2019\n" +
		"Blank,DJ,/c.mp3,,\n"
	lib, err := seratoAdapter{}.Parse([]byte(content))
	require.NoError(t, err)
	require.Len(t, lib.Tracks, 3)

	assert.Nil(t, lib.Tracks[0].BPM)
	assert.Nil(t, lib.Tracks[0].Year)

	require.NotNil(t, lib.Tracks[1].BPM)
	assert.Equal(t, 127.5, *lib.Tracks[1].BPM)

	assert.Nil(t, lib.Tracks[2].BPM)
	assert.Nil(t, lib.Tracks[2].Year)

	// A CSV can never carry durations, so none are invented.
	for _, tr := range lib.Tracks {
		assert.Nil(t, tr.DurationSeconds)
	}
}

func TestSeratoParseUnrecognizedHeader(t *testing.T) {
	// The first row is consumed as a header even when nothing matches;
	// remaining rows become tracks with empty fields rather than an error.
	content := "one,two,three\nx,y,z\n"
	lib, err := seratoAdapter{}.Parse([]byte(content))
	require.NoError(t, err)
	require.Len(t, lib.Tracks, 1)
	assert.Equal(t, "", lib.Tracks[0].Title)
}

func TestSeratoExportHeaderAndOrder(t *testing.T) {
	lib, err := seratoAdapter{}.Parse([]byte("Title,Artist,File\nFirst,One,/a.mp3\nSecond,Two,/b.mp3\n"))
	require.NoError(t, err)

	out, err := seratoAdapter{}.Export(lib)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "Artist,Title,File,Key,BPM,Year", lines[0])
	assert.Equal(t, "One,First,/a.mp3,,,", lines[1])
	assert.Equal(t, "Two,Second,/b.mp3,,,", lines[2])
}

func TestSeratoFormulaEscaping(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"equals", "=cmd()", "'=cmd()"},
		{"plus", "+1 Intro", "'+1 Intro"},
		{"minus", "-Tension-", "'-Tension-"},
		{"at sign", "@midnight", "'@midnight"},
		{"plain title untouched", "Regular Song", "Regular Song"},
		{"apostrophe start untouched", "'Round Midnight", "'Round Midnight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeFormula(tt.title))
		})
	}
}

func TestSeratoEscapingRoundTrip(t *testing.T) {
	content := "Title,Artist,File\n=SUM(A1),+DJ Plus,=evil.mp3\n"
	lib, err := seratoAdapter{}.Parse([]byte(content))
	require.NoError(t, err)

	out, err := seratoAdapter{}.Export(lib)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "'=SUM(A1)")
	assert.Contains(t, text, "'+DJ Plus")
	assert.Contains(t, text, "'=evil.mp3")

	// Re-importing our own export strips the guards back off.
	again, err := seratoAdapter{}.Parse(out)
	require.NoError(t, err)
	require.Len(t, again.Tracks, 1)
	assert.Equal(t, "=SUM(A1)", again.Tracks[0].Title)
	assert.Equal(t, "+DJ Plus", again.Tracks[0].Artist)
	assert.Equal(t, "=evil.mp3", again.Tracks[0].FilePath)
}

func TestSeratoRoundTripValues(t *testing.T) {
	content := "Artist,Title,File,Key,BPM,Year\nArtist One,First Track,/music/first.mp3,8A,127.5,2020\n,No Artist,/music/second.mp3,,,\n"
	lib, err := seratoAdapter{}.Parse([]byte(content))
	require.NoError(t, err)

	out, err := seratoAdapter{}.Export(lib)
	require.NoError(t, err)
	again, err := seratoAdapter{}.Parse(out)
	require.NoError(t, err)

	require.Len(t, again.Tracks, 2)
	for i := range lib.Tracks {
		assert.Equal(t, lib.Tracks[i].Title, again.Tracks[i].Title)
		assert.Equal(t, lib.Tracks[i].Artist, again.Tracks[i].Artist)
		assert.Equal(t, lib.Tracks[i].FilePath, again.Tracks[i].FilePath)
		assert.Equal(t, lib.Tracks[i].Key, again.Tracks[i].Key)
		assert.Equal(t, lib.Tracks[i].BPM, again.Tracks[i].BPM)
		assert.Equal(t, lib.Tracks[i].Year, again.Tracks[i].Year)
	}
}

func TestSeratoParseEmptyInput(t *testing.T) {
	lib, err := seratoAdapter{}.Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, lib.Tracks)
	assert.Empty(t, lib.Playlists)
}
