package formats

import (
	"encoding/xml"
	"strconv"

	"segue/types"
)

// rekordboxAdapter reads and writes the Rekordbox collection XML dialect:
// a DJ_PLAYLISTS document with a COLLECTION of TRACK elements and a NODE
// tree of playlists referencing tracks by TrackID.
type rekordboxAdapter struct{}

func (rekordboxAdapter) Format() Format      { return FormatRekordbox }
func (rekordboxAdapter) ContentType() string { return "application/xml" }
func (rekordboxAdapter) FileName() string    { return "library_rekordbox.xml" }

type rbDocument struct {
	XMLName    xml.Name     `xml:"DJ_PLAYLISTS"`
	Version    string       `xml:"Version,attr,omitempty"`
	Collection rbCollection `xml:"COLLECTION"`
	Playlists  rbPlaylists  `xml:"PLAYLISTS"`
}

type rbCollection struct {
	Entries string    `xml:"Entries,attr,omitempty"`
	Tracks  []rbTrack `xml:"TRACK"`
}

// rbTrack keeps every attribute as a string so one struct serves both
// directions; numeric leniency lives in the parse helpers.
type rbTrack struct {
	TrackID    string `xml:"TrackID,attr"`
	Name       string `xml:"Name,attr"`
	Artist     string `xml:"Artist,attr"`
	Location   string `xml:"Location,attr"`
	AverageBpm string `xml:"AverageBpm,attr,omitempty"`
	Tonality   string `xml:"Tonality,attr,omitempty"`
	Year       string `xml:"Year,attr,omitempty"`
	TotalTime  string `xml:"TotalTime,attr,omitempty"`
}

type rbPlaylists struct {
	Nodes []rbNode `xml:"NODE"`
}

type rbNode struct {
	Type    string       `xml:"Type,attr"`
	Name    string       `xml:"Name,attr"`
	Entries string       `xml:"Entries,attr,omitempty"`
	Tracks  []rbTrackRef `xml:"TRACK"`
	Nodes   []rbNode     `xml:"NODE"`
}

type rbTrackRef struct {
	Key string `xml:"Key,attr"`
}

func (rekordboxAdapter) Parse(data []byte) (*types.Library, error) {
	var doc rbDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &types.MalformedFileError{Format: string(FormatRekordbox), Reason: err.Error()}
	}

	lib := types.NewLibrary(string(FormatRekordbox))
	// Maps the file's TrackID to our generated id for playlist resolution.
	byRef := make(map[string]string, len(doc.Collection.Tracks))

	for _, el := range doc.Collection.Tracks {
		track := &types.Track{
			Title:           el.Name,
			Artist:          el.Artist,
			FilePath:        el.Location,
			BPM:             parseFloat(el.AverageBpm),
			Year:            parseInt(el.Year),
			DurationSeconds: parseInt(el.TotalTime),
		}
		if el.Tonality != "" {
			key := el.Tonality
			track.Key = &key
		}
		lib.AddTrack(track)
		if el.TrackID != "" {
			byRef[el.TrackID] = track.ID
		}
	}

	for _, node := range doc.Playlists.Nodes {
		if err := collectRekordboxPlaylists(lib, node, byRef); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// collectRekordboxPlaylists walks the NODE tree. Type "1" marks a playlist;
// anything else is treated as a folder and recursed into. References to
// unknown TrackIDs are skipped, and a playlist left with no resolvable
// tracks is dropped.
func collectRekordboxPlaylists(lib *types.Library, node rbNode, byRef map[string]string) error {
	if node.Type == "1" {
		var ids []string
		for _, ref := range node.Tracks {
			if id, ok := byRef[ref.Key]; ok {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			name := node.Name
			if name == "" {
				name = "Playlist"
			}
			if _, err := lib.AddPlaylist(name, ids); err != nil {
				return err
			}
		}
		return nil
	}
	for _, child := range node.Nodes {
		if err := collectRekordboxPlaylists(lib, child, byRef); err != nil {
			return err
		}
	}
	return nil
}

func (rekordboxAdapter) Export(lib *types.Library) ([]byte, error) {
	doc := rbDocument{Version: "1.0"}
	doc.Collection.Entries = strconv.Itoa(len(lib.Tracks))

	// Tracks are numbered sequentially; playlist references use the same
	// numbering so the output re-imports cleanly.
	seq := make(map[string]string, len(lib.Tracks))
	for i, t := range lib.Tracks {
		id := strconv.Itoa(i + 1)
		seq[t.ID] = id
		key := ""
		if t.Key != nil {
			key = *t.Key
		}
		doc.Collection.Tracks = append(doc.Collection.Tracks, rbTrack{
			TrackID:    id,
			Name:       t.Title,
			Artist:     t.Artist,
			Location:   t.FilePath,
			AverageBpm: formatBPM(t.BPM, 2),
			Tonality:   key,
			Year:       formatInt(t.Year),
			TotalTime:  formatInt(t.DurationSeconds),
		})
	}

	root := rbNode{Type: "0", Name: "ROOT"}
	for _, pl := range lib.Playlists {
		node := rbNode{Type: "1", Name: pl.Name, Entries: strconv.Itoa(len(pl.TrackIDs))}
		for _, tid := range pl.TrackIDs {
			if ref, ok := seq[tid]; ok {
				node.Tracks = append(node.Tracks, rbTrackRef{Key: ref})
			}
		}
		root.Nodes = append(root.Nodes, node)
	}
	doc.Playlists.Nodes = []rbNode{root}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
