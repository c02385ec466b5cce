package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segue/types"
)

func TestStatsAggregation(t *testing.T) {
	lib := types.NewLibrary("m3u")

	addFull := func(artist string, bpm float64, key string, year, dur int) {
		lib.AddTrack(&types.Track{
			Title:           "T",
			Artist:          artist,
			FilePath:        "/t.mp3",
			BPM:             &bpm,
			Key:             &key,
			Year:            &year,
			DurationSeconds: &dur,
		})
	}
	addFull("Carl", 120, "8A", 1999, 300)
	addFull("Carl", 125, "8A", 2005, 300)
	addFull("Ellen", 130, "9B", 2010, 120)
	lib.AddTrack(&types.Track{Title: "Sparse", Artist: "", FilePath: "/s.mp3"})

	_, err := lib.AddPlaylist("P", nil)
	require.NoError(t, err)

	report := NewStatsService().Stats(lib)

	assert.Equal(t, 4, report.TrackCount)
	assert.Equal(t, 1, report.PlaylistCount)

	require.NotNil(t, report.BPM.Min)
	assert.Equal(t, 120.0, *report.BPM.Min)
	assert.Equal(t, 130.0, *report.BPM.Max)
	assert.Equal(t, 125.0, *report.BPM.Avg)

	require.NotNil(t, report.Year.Min)
	assert.Equal(t, 1999, *report.Year.Min)
	assert.Equal(t, 2010, *report.Year.Max)

	assert.Equal(t, map[string]int{"8A": 2, "9B": 1}, report.Keys)

	require.NotEmpty(t, report.TopArtists)
	assert.Equal(t, ArtistCount{Artist: "Carl", Count: 2}, report.TopArtists[0])
	assert.Equal(t, ArtistCount{Artist: "Ellen", Count: 1}, report.TopArtists[1])

	// 300+300+120 plus the 300s fallback for the sparse track.
	assert.Equal(t, 17.0, report.Duration.TotalMinutes)
}

func TestStatsAvgRounding(t *testing.T) {
	lib := types.NewLibrary("m3u")
	for _, v := range []float64{120, 121, 121} {
		bpm := v
		lib.AddTrack(&types.Track{Title: "T", FilePath: "/t.mp3", BPM: &bpm})
	}

	report := NewStatsService().Stats(lib)

	require.NotNil(t, report.BPM.Avg)
	assert.Equal(t, 120.67, *report.BPM.Avg)
}

func TestStatsEmptyLibrary(t *testing.T) {
	report := NewStatsService().Stats(types.NewLibrary("m3u"))

	assert.Equal(t, 0, report.TrackCount)
	assert.Nil(t, report.BPM.Min)
	assert.Nil(t, report.BPM.Avg)
	assert.Nil(t, report.Year.Min)
	assert.NotNil(t, report.Keys)
	assert.Empty(t, report.Keys)
	assert.NotNil(t, report.TopArtists)
	assert.Equal(t, 0.0, report.Duration.TotalMinutes)
}

func TestStatsTopArtistsTieBreak(t *testing.T) {
	lib := types.NewLibrary("m3u")
	for _, artist := range []string{"Zoe", "Adam", "Zoe", "Adam", "Mia", "Mia", "Solo"} {
		lib.AddTrack(&types.Track{Title: "T", Artist: artist, FilePath: "/t.mp3"})
	}

	report := NewStatsService().Stats(lib)

	require.Len(t, report.TopArtists, 4)
	assert.Equal(t, "Adam", report.TopArtists[0].Artist, "equal counts order by name")
	assert.Equal(t, "Mia", report.TopArtists[1].Artist)
	assert.Equal(t, "Zoe", report.TopArtists[2].Artist)
	assert.Equal(t, "Solo", report.TopArtists[3].Artist)
}

func TestStatsTopArtistsCapsAtFive(t *testing.T) {
	lib := types.NewLibrary("m3u")
	for _, artist := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		lib.AddTrack(&types.Track{Title: "T", Artist: artist, FilePath: "/t.mp3"})
	}

	report := NewStatsService().Stats(lib)

	assert.Len(t, report.TopArtists, 5)
}

func TestHealthReportCategories(t *testing.T) {
	lib := types.NewLibrary("m3u")

	short := 45
	fine := 300
	lowBPM := 40.0
	highBPM := 210.0
	okBPM := 128.0
	oldYear := 1925
	futureYear := 2040
	okYear := 2020

	noPath := lib.AddTrack(&types.Track{Title: "NoPath"})
	badExt := lib.AddTrack(&types.Track{Title: "BadExt", FilePath: "/music/video.mp4"})
	noExt := lib.AddTrack(&types.Track{Title: "NoExt", FilePath: "/music/raw"})
	shortOne := lib.AddTrack(&types.Track{Title: "Short", FilePath: "/a.mp3", DurationSeconds: &short})
	slow := lib.AddTrack(&types.Track{Title: "Slow", FilePath: "/b.wav", BPM: &lowBPM})
	fast := lib.AddTrack(&types.Track{Title: "Fast", FilePath: "/c.flac", BPM: &highBPM})
	ancient := lib.AddTrack(&types.Track{Title: "Ancient", FilePath: "/d.aiff", Year: &oldYear})
	future := lib.AddTrack(&types.Track{Title: "Future", FilePath: "/e.ogg", Year: &futureYear})
	clean := lib.AddTrack(&types.Track{Title: "Clean", FilePath: "/f.m4a", DurationSeconds: &fine, BPM: &okBPM, Year: &okYear})

	report := NewStatsService().Health(lib)

	assert.Equal(t, 9, report.TrackCount)
	assert.Equal(t, []string{noPath.ID}, report.Issues.MissingFilePath)
	assert.ElementsMatch(t, []string{badExt.ID, noExt.ID}, report.Issues.UnknownExtension)
	assert.Equal(t, []string{shortOne.ID}, report.Issues.VeryShortDuration)
	assert.ElementsMatch(t, []string{slow.ID, fast.ID}, report.Issues.UnusualBPM)
	assert.ElementsMatch(t, []string{ancient.ID, future.ID}, report.Issues.UnusualYear)

	for _, list := range [][]string{
		report.Issues.MissingFilePath,
		report.Issues.UnknownExtension,
		report.Issues.VeryShortDuration,
		report.Issues.UnusualBPM,
		report.Issues.UnusualYear,
	} {
		assert.NotContains(t, list, clean.ID)
	}
}

func TestHealthBoundaryValues(t *testing.T) {
	lib := types.NewLibrary("m3u")

	sixty := 60
	bpm60 := 60.0
	bpm200 := 200.0
	y1950 := 1950
	y2030 := 2030
	lib.AddTrack(&types.Track{Title: "Edge", FilePath: "/e.mp3", DurationSeconds: &sixty, BPM: &bpm60, Year: &y1950})
	lib.AddTrack(&types.Track{Title: "Edge2", FilePath: "/f.mp3", BPM: &bpm200, Year: &y2030})

	report := NewStatsService().Health(lib)

	assert.Empty(t, report.Issues.VeryShortDuration, "60s is not very short")
	assert.Empty(t, report.Issues.UnusualBPM, "60 and 200 are inclusive bounds")
	assert.Empty(t, report.Issues.UnusualYear, "1950 and 2030 are inclusive bounds")
}

func TestHealthMissingFieldsAreNotUnusual(t *testing.T) {
	lib := types.NewLibrary("m3u")
	lib.AddTrack(&types.Track{Title: "Bare", FilePath: "/bare.mp3"})

	report := NewStatsService().Health(lib)

	assert.Empty(t, report.Issues.VeryShortDuration)
	assert.Empty(t, report.Issues.UnusualBPM)
	assert.Empty(t, report.Issues.UnusualYear)
	assert.Empty(t, report.Issues.UnknownExtension)
}
