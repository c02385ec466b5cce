package formats

import (
	"bytes"
	"encoding/csv"
	"strings"

	"segue/types"
)

// seratoAdapter reads and writes Serato-style CSV crate exports. Parsing is
// header driven and forgiving: column order is free, several spellings per
// column are accepted, and rows with bad numerics keep the track with the
// bad field nil. Export always writes the fixed Artist-first header.
type seratoAdapter struct{}

func (seratoAdapter) Format() Format      { return FormatSerato }
func (seratoAdapter) ContentType() string { return "text/csv" }
func (seratoAdapter) FileName() string    { return "library_serato.csv" }

// Column spellings accepted on import, all matched case-insensitively.
var seratoColumns = map[string][]string{
	"title":  {"title", "name"},
	"artist": {"artist"},
	"file":   {"file", "location", "path"},
	"key":    {"key"},
	"bpm":    {"bpm"},
	"year":   {"year"},
}

func (seratoAdapter) Parse(data []byte) (*types.Library, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &types.MalformedFileError{Format: string(FormatSerato), Reason: err.Error()}
	}

	lib := types.NewLibrary(string(FormatSerato))
	if len(rows) == 0 {
		return lib, nil
	}

	idx := mapSeratoHeader(rows[0])
	var trackIDs []string
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		track := &types.Track{
			Title:    unescapeFormula(cell("title")),
			Artist:   unescapeFormula(cell("artist")),
			FilePath: unescapeFormula(cell("file")),
			BPM:      parseFloat(cell("bpm")),
			Year:     parseInt(cell("year")),
		}
		if key := unescapeFormula(cell("key")); key != "" {
			track.Key = &key
		}
		lib.AddTrack(track)
		trackIDs = append(trackIDs, track.ID)
	}

	if len(trackIDs) > 0 {
		if _, err := lib.AddPlaylist("Imported", trackIDs); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// mapSeratoHeader resolves the header row to canonical column indexes.
// First matching spelling wins per canonical column.
func mapSeratoHeader(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := make(map[string]int)
	for canonical, spellings := range seratoColumns {
		for _, s := range spellings {
			if i, ok := byName[s]; ok {
				idx[canonical] = i
				break
			}
		}
	}
	return idx
}

func (seratoAdapter) Export(lib *types.Library) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Artist", "Title", "File", "Key", "BPM", "Year"}); err != nil {
		return nil, err
	}
	for _, t := range lib.Tracks {
		key := ""
		if t.Key != nil {
			key = *t.Key
		}
		record := []string{
			escapeFormula(t.Artist),
			escapeFormula(t.Title),
			escapeFormula(t.FilePath),
			escapeFormula(key),
			formatBPM(t.BPM, -1),
			formatInt(t.Year),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// formulaPrefixes are the characters a spreadsheet would treat as the start
// of a formula when they lead a cell.
const formulaPrefixes = "=+-@\t\r\n"

// escapeFormula guards a cell against spreadsheet formula injection with a
// leading apostrophe.
func escapeFormula(cell string) string {
	if cell != "" && strings.ContainsRune(formulaPrefixes, rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

// unescapeFormula strips the guard added by escapeFormula so import/export
// round-trips reproduce the original value. An apostrophe followed by
// anything else is real data and kept.
func unescapeFormula(cell string) string {
	if len(cell) >= 2 && cell[0] == '\'' && strings.ContainsRune(formulaPrefixes, rune(cell[1])) {
		return cell[1:]
	}
	return cell
}
