package formats

import (
	"archive/zip"
	"bytes"

	"golang.org/x/sync/errgroup"

	"segue/types"
)

// ExportSingle renders the library in the named format. When playlistID is
// non-empty only that playlist's tracks are rendered, in playlist order.
// The returned adapter tells the caller which content type and file name
// to serve.
func ExportSingle(lib *types.Library, formatName, playlistID string) ([]byte, Adapter, error) {
	ad, err := Lookup(formatName)
	if err != nil {
		return nil, nil, err
	}
	view, err := playlistView(lib, playlistID)
	if err != nil {
		return nil, nil, err
	}
	data, err := ad.Export(view)
	if err != nil {
		return nil, nil, err
	}
	return data, ad, nil
}

// ExportBundle renders the library in each named format and packs the
// results into one zip archive. The renders run concurrently; archive
// entries keep the caller's format order.
func ExportBundle(lib *types.Library, formatNames []string, playlistID string) ([]byte, error) {
	ads := make([]Adapter, len(formatNames))
	for i, name := range formatNames {
		ad, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		ads[i] = ad
	}
	view, err := playlistView(lib, playlistID)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, len(ads))
	var g errgroup.Group
	for i, ad := range ads {
		i, ad := i, ad // per-iteration copies: module targets Go >=1.22 semantics but builds with 1.21
		g.Go(func() error {
			data, err := ad.Export(view)
			payloads[i] = data
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, ad := range ads {
		w, err := zw.Create(ad.FileName())
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(payloads[i]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// playlistView narrows a library to one playlist's tracks, in playlist
// order. An empty id returns the library itself.
func playlistView(lib *types.Library, playlistID string) (*types.Library, error) {
	if playlistID == "" {
		return lib, nil
	}
	pl, ok := lib.PlaylistByID(playlistID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "playlist", ID: playlistID}
	}
	view := &types.Library{
		ID:           lib.ID,
		SourceFormat: lib.SourceFormat,
		Playlists:    []*types.Playlist{pl},
	}
	for _, tid := range pl.TrackIDs {
		if t, ok := lib.TrackByID(tid); ok {
			view.Tracks = append(view.Tracks, t)
		}
	}
	return view, nil
}
