package formats

import (
	"encoding/xml"
	"strings"

	"segue/types"
)

// traktorAdapter reads and writes Traktor NML collections. Track metadata
// is spread across the ENTRY element and its INFO and LOCATION children;
// playlist nodes reference tracks by file path rather than id, so the
// adapter keys its resolution map the same way.
type traktorAdapter struct{}

func (traktorAdapter) Format() Format      { return FormatTraktor }
func (traktorAdapter) ContentType() string { return "application/xml" }
func (traktorAdapter) FileName() string    { return "library_traktor.nml" }

type nmlDocument struct {
	XMLName    xml.Name      `xml:"NML"`
	Version    string        `xml:"VERSION,attr,omitempty"`
	Collection nmlCollection `xml:"COLLECTION"`
	Playlists  nmlPlaylists  `xml:"PLAYLISTS"`
}

type nmlCollection struct {
	Entries []nmlEntry `xml:"ENTRY"`
}

type nmlEntry struct {
	Title    string       `xml:"TITLE,attr"`
	Artist   string       `xml:"ARTIST,attr"`
	Info     *nmlInfo     `xml:"INFO"`
	Location *nmlLocation `xml:"LOCATION"`
}

type nmlInfo struct {
	BPM         string `xml:"BPM,attr,omitempty"`
	MusicalKey  string `xml:"MUSICAL_KEY,attr,omitempty"`
	ReleaseDate string `xml:"RELEASE_DATE,attr,omitempty"`
	Playtime    string `xml:"PLAYTIME,attr,omitempty"`
}

type nmlLocation struct {
	Dir  string `xml:"DIR,attr"`
	File string `xml:"FILE,attr"`
}

type nmlPlaylists struct {
	Nodes []nmlNode `xml:"NODE"`
}

type nmlNode struct {
	Name    string        `xml:"NAME,attr"`
	Type    string        `xml:"TYPE,attr"`
	Entries []nmlEntryRef `xml:"ENTRY"`
	Nodes   []nmlNode     `xml:"NODE"`
}

type nmlEntryRef struct {
	Key string `xml:"KEY,attr"`
}

func (traktorAdapter) Parse(data []byte) (*types.Library, error) {
	var doc nmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &types.MalformedFileError{Format: string(FormatTraktor), Reason: err.Error()}
	}

	lib := types.NewLibrary(string(FormatTraktor))
	byPath := make(map[string]string, len(doc.Collection.Entries))

	for _, el := range doc.Collection.Entries {
		track := &types.Track{
			Title:  el.Title,
			Artist: el.Artist,
		}
		if el.Location != nil {
			track.FilePath = el.Location.Dir + el.Location.File
		}
		if el.Info != nil {
			track.BPM = parseFloat(el.Info.BPM)
			track.DurationSeconds = parseSeconds(el.Info.Playtime)
			if el.Info.MusicalKey != "" {
				key := el.Info.MusicalKey
				track.Key = &key
			}
			track.Year = yearFromReleaseDate(el.Info.ReleaseDate)
		}
		lib.AddTrack(track)

		// Playlist ENTRY nodes reference by path, falling back to title
		// for entries without a location.
		refKey := track.FilePath
		if refKey == "" {
			refKey = track.Title
		}
		if refKey != "" {
			byPath[refKey] = track.ID
		}
	}

	for _, node := range doc.Playlists.Nodes {
		if err := collectTraktorPlaylists(lib, node, byPath); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// yearFromReleaseDate extracts the year from a YYYY-MM-DD release date.
func yearFromReleaseDate(date string) *int {
	if len(date) < 4 {
		return nil
	}
	return parseInt(date[:4])
}

func collectTraktorPlaylists(lib *types.Library, node nmlNode, byPath map[string]string) error {
	if strings.EqualFold(node.Type, "PLAYLIST") {
		var ids []string
		for _, ref := range node.Entries {
			if id, ok := byPath[ref.Key]; ok {
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
		if err := collectTraktorPlaylists(lib, child, byPath); err != nil {
			return err
		}
	}
	return nil
}

func (traktorAdapter) Export(lib *types.Library) ([]byte, error) {
	doc := nmlDocument{Version: "19"}

	refs := make(map[string]string, len(lib.Tracks))
	for _, t := range lib.Tracks {
		dir, file := splitTraktorPath(t.FilePath)
		key := ""
		if t.Key != nil {
			key = *t.Key
		}
		info := &nmlInfo{
			BPM:        formatBPM(t.BPM, 2),
			MusicalKey: key,
			Playtime:   formatInt(t.DurationSeconds),
		}
		if t.Year != nil {
			info.ReleaseDate = formatInt(t.Year) + "-01-01"
		}
		doc.Collection.Entries = append(doc.Collection.Entries, nmlEntry{
			Title:    t.Title,
			Artist:   t.Artist,
			Info:     info,
			Location: &nmlLocation{Dir: dir, File: file},
		})

		refKey := t.FilePath
		if refKey == "" {
			refKey = t.Title
		}
		if refKey != "" {
			refs[t.ID] = refKey
		}
	}

	root := nmlNode{Name: "ROOT", Type: "FOLDER"}
	for _, pl := range lib.Playlists {
		node := nmlNode{Name: pl.Name, Type: "PLAYLIST"}
		for _, tid := range pl.TrackIDs {
			if ref, ok := refs[tid]; ok {
				node.Entries = append(node.Entries, nmlEntryRef{Key: ref})
			}
		}
		root.Nodes = append(root.Nodes, node)
	}
	doc.Playlists.Nodes = []nmlNode{root}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// splitTraktorPath separates a path into the DIR and FILE attributes,
// keeping the trailing separator on the directory half.
func splitTraktorPath(p string) (dir, file string) {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i+1], p[i+1:]
	}
	return "", p
}
