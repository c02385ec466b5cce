package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segue/types"
)

func addTimedTrack(lib *types.Library, title, artist string, seconds int) *types.Track {
	return lib.AddTrack(&types.Track{
		Title:           title,
		Artist:          artist,
		FilePath:        "/music/" + title + ".mp3",
		DurationSeconds: &seconds,
	})
}

func TestGenerateV1FillsToTarget(t *testing.T) {
	lib := types.NewLibrary("m3u")
	a := addTimedTrack(lib, "One", "X", 300)
	b := addTimedTrack(lib, "Two", "X", 300)
	c := addTimedTrack(lib, "Three", "X", 300)
	addTimedTrack(lib, "Four", "X", 300)

	result, err := NewSmartlistService().GenerateV1(lib, 15, "")
	require.NoError(t, err)

	assert.Equal(t, "Auto 15 min", result.Name)
	assert.Equal(t, 3, result.TrackCount, "the crossing track is included")
	assert.Equal(t, 15, result.ApproxDurationMinutes)

	pl, ok := lib.PlaylistByID(result.PlaylistID)
	require.True(t, ok)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, pl.TrackIDs)
}

func TestGenerateV1KeywordMatchesTitleAndArtistOnly(t *testing.T) {
	lib := types.NewLibrary("m3u")
	hit := addTimedTrack(lib, "Deep Dive", "Somebody", 300)
	addTimedTrack(lib, "Other", "Unrelated", 300)
	pathOnly := lib.AddTrack(&types.Track{Title: "X", Artist: "Y", FilePath: "/deep/z.mp3"})

	result, err := NewSmartlistService().GenerateV1(lib, 60, "deep")
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Contains(t, pl.TrackIDs, hit.ID)
	assert.NotContains(t, pl.TrackIDs, pathOnly.ID, "file path is not searched in v1")
	assert.Equal(t, 1, result.TrackCount)
}

func TestGenerateV1EmptyLibrary(t *testing.T) {
	lib := types.NewLibrary("m3u")

	result, err := NewSmartlistService().GenerateV1(lib, 30, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.TrackCount)
	assert.Equal(t, 0, result.ApproxDurationMinutes)
}

func TestGenerateV2UnknownDurationCountsAsFallback(t *testing.T) {
	lib := types.NewLibrary("m3u")
	lib.AddTrack(&types.Track{Title: "NoDur", Artist: "X", FilePath: "/a.mp3"})
	lib.AddTrack(&types.Track{Title: "NoDur2", Artist: "X", FilePath: "/b.mp3"})
	lib.AddTrack(&types.Track{Title: "NoDur3", Artist: "X", FilePath: "/c.mp3"})

	ten := 10
	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{TargetMinutes: &ten})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TrackCount, "two fallback lengths cross the ten minute target")
	assert.Equal(t, 10, result.ApproxDurationMinutes)
}

func TestGenerateV2BPMBounds(t *testing.T) {
	lib := types.NewLibrary("m3u")
	slow, mid, fast := 100.0, 128.0, 150.0
	lib.AddTrack(&types.Track{Title: "Slow", BPM: &slow, FilePath: "/s.mp3"})
	want := lib.AddTrack(&types.Track{Title: "Mid", BPM: &mid, FilePath: "/m.mp3"})
	lib.AddTrack(&types.Track{Title: "Fast", BPM: &fast, FilePath: "/f.mp3"})
	lib.AddTrack(&types.Track{Title: "NoBPM", FilePath: "/n.mp3"})

	minBPM, maxBPM := 120.0, 140.0
	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{
		MinBPM: &minBPM,
		MaxBPM: &maxBPM,
	})
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Equal(t, []string{want.ID}, pl.TrackIDs, "bounds exclude tracks without BPM")
}

func TestGenerateV2KeysWhitelistExcludesUnknownKeys(t *testing.T) {
	lib := types.NewLibrary("m3u")
	keyA := "8a"
	keyB := "9B"
	withA := lib.AddTrack(&types.Track{Title: "A", Key: &keyA, FilePath: "/a.mp3"})
	lib.AddTrack(&types.Track{Title: "B", Key: &keyB, FilePath: "/b.mp3"})
	lib.AddTrack(&types.Track{Title: "NoKey", FilePath: "/n.mp3"})

	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{
		Keys: []string{"8A"},
	})
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Equal(t, []string{withA.ID}, pl.TrackIDs,
		"key comparison ignores case and keyless tracks never pass a whitelist")
}

func TestGenerateV2SortsBPMAscendingNilLast(t *testing.T) {
	lib := types.NewLibrary("m3u")
	fast, slow := 140.0, 110.0
	f := lib.AddTrack(&types.Track{Title: "Fast", BPM: &fast, FilePath: "/f.mp3"})
	n := lib.AddTrack(&types.Track{Title: "NoBPM", FilePath: "/n.mp3"})
	s := lib.AddTrack(&types.Track{Title: "Slow", BPM: &slow, FilePath: "/s.mp3"})

	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{})
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Equal(t, []string{s.ID, f.ID, n.ID}, pl.TrackIDs)
}

func TestGenerateV2SortByYear(t *testing.T) {
	lib := types.NewLibrary("m3u")
	y1, y2 := 2015, 1999
	newer := lib.AddTrack(&types.Track{Title: "Newer", Year: &y1, FilePath: "/a.mp3"})
	older := lib.AddTrack(&types.Track{Title: "Older", Year: &y2, FilePath: "/b.mp3"})

	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{SortBy: "year"})
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Equal(t, []string{older.ID, newer.ID}, pl.TrackIDs)
}

func TestGenerateV2SeededShuffleIsReproducible(t *testing.T) {
	build := func() *types.Library {
		lib := types.NewLibrary("m3u")
		for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
			addTimedTrack(lib, title, "X", 60)
		}
		return lib
	}

	seed := int64(42)
	req := types.SmartPlaylistV2Request{SortBy: "random", Seed: &seed}

	libOne := build()
	one, err := NewSmartlistService().GenerateV2(libOne, req)
	require.NoError(t, err)
	libTwo := build()
	two, err := NewSmartlistService().GenerateV2(libTwo, req)
	require.NoError(t, err)

	plOne, _ := libOne.PlaylistByID(one.PlaylistID)
	plTwo, _ := libTwo.PlaylistByID(two.PlaylistID)

	namesOf := func(lib *types.Library, ids []string) []string {
		names := make([]string, len(ids))
		for i, id := range ids {
			track, ok := lib.TrackByID(id)
			require.True(t, ok)
			names[i] = track.Title
		}
		return names
	}
	assert.Equal(t, namesOf(libOne, plOne.TrackIDs), namesOf(libTwo, plTwo.TrackIDs),
		"same seed, same order")
}

func TestGenerateV2PlaylistName(t *testing.T) {
	lib := types.NewLibrary("m3u")
	addTimedTrack(lib, "A", "X", 60)

	svc := NewSmartlistService()

	named, err := svc.GenerateV2(lib, types.SmartPlaylistV2Request{PlaylistName: "Peak Time"})
	require.NoError(t, err)
	assert.Equal(t, "Peak Time", named.Name)

	fallback, err := svc.GenerateV2(lib, types.SmartPlaylistV2Request{})
	require.NoError(t, err)
	assert.Equal(t, "Smart 60 min", fallback.Name)
}

func TestGenerateV2KeywordSearchesFilePath(t *testing.T) {
	lib := types.NewLibrary("m3u")
	hit := lib.AddTrack(&types.Track{Title: "X", Artist: "Y", FilePath: "/warehouse/z.mp3"})
	lib.AddTrack(&types.Track{Title: "Other", Artist: "Y", FilePath: "/club/w.mp3"})

	result, err := NewSmartlistService().GenerateV2(lib, types.SmartPlaylistV2Request{Keyword: "warehouse"})
	require.NoError(t, err)

	pl, _ := lib.PlaylistByID(result.PlaylistID)
	assert.Equal(t, []string{hit.ID}, pl.TrackIDs)
}
