// Package formats implements detection, parsing, and serialization for the
// supported DJ library formats: Rekordbox XML, Traktor NML, Serato CSV, and
// M3U playlists. Each adapter is bidirectional and tolerant on the way in:
// missing or unparseable optional fields become nil, never zero.
package formats

import (
	"bytes"
	"strconv"
	"strings"

	"segue/types"
)

// Format identifies one supported library file format.
type Format string

const (
	FormatM3U       Format = "m3u"
	FormatSerato    Format = "serato_csv"
	FormatRekordbox Format = "rekordbox_xml"
	FormatTraktor   Format = "traktor_nml"
)

// Adapter is one bidirectional format codec. Parse accepts raw file bytes
// and builds a canonical library; Export renders the library's tracks in
// order and owns any escaping the target format needs.
type Adapter interface {
	Format() Format
	ContentType() string
	FileName() string
	Parse(data []byte) (*types.Library, error)
	Export(lib *types.Library) ([]byte, error)
}

var adapters = map[Format]Adapter{
	FormatM3U:       m3uAdapter{},
	FormatSerato:    seratoAdapter{},
	FormatRekordbox: rekordboxAdapter{},
	FormatTraktor:   traktorAdapter{},
}

// aliases maps the accepted request names onto canonical formats. Both the
// short names used by the export API and the canonical source_format values
// resolve.
var aliases = map[string]Format{
	"m3u":           FormatM3U,
	"m3u8":          FormatM3U,
	"serato":        FormatSerato,
	"serato_csv":    FormatSerato,
	"rekordbox":     FormatRekordbox,
	"rekordbox_xml": FormatRekordbox,
	"traktor":       FormatTraktor,
	"traktor_nml":   FormatTraktor,
}

// Lookup resolves a user-supplied format name to its adapter.
func Lookup(name string) (Adapter, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, types.Validationf("unknown format %q", name)
	}
	return adapters[f], nil
}

// Names returns the canonical format names, for error hints and docs.
func Names() []string {
	return []string{string(FormatM3U), string(FormatSerato), string(FormatRekordbox), string(FormatTraktor)}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect picks the adapter for an uploaded file. The filename extension is
// the primary hint; content sniffing covers files uploaded without a useful
// name. Returns UnsupportedFormatError when nothing matches.
func Detect(filename string, data []byte) (Adapter, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(data)
	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".m3u"), strings.HasSuffix(lower, ".m3u8"):
		return adapters[FormatM3U], nil
	case strings.HasSuffix(lower, ".xml"):
		if strings.Contains(text, "<DJ_PLAYLISTS") || strings.Contains(text, "DJ_PLAYLISTS") {
			return adapters[FormatRekordbox], nil
		}
		if strings.Contains(text, "<NML") {
			return adapters[FormatTraktor], nil
		}
		return nil, &types.UnsupportedFormatError{Hint: "XML root is neither DJ_PLAYLISTS nor NML"}
	case strings.HasSuffix(lower, ".nml"):
		return adapters[FormatTraktor], nil
	case strings.HasSuffix(lower, ".csv"):
		if csvHeaderLooksLikeLibrary(firstLine(text)) {
			return adapters[FormatSerato], nil
		}
		return nil, &types.UnsupportedFormatError{Hint: "CSV header has no recognized library columns"}
	}

	// No extension hint: sniff the content.
	if strings.Contains(text, "#EXTM3U") {
		return adapters[FormatM3U], nil
	}
	if strings.Contains(text, "<DJ_PLAYLISTS") {
		return adapters[FormatRekordbox], nil
	}
	if strings.Contains(text, "<NML") {
		return adapters[FormatTraktor], nil
	}
	if line := firstLine(text); strings.Contains(line, ",") && csvHeaderLooksLikeLibrary(line) {
		return adapters[FormatSerato], nil
	}
	return nil, &types.UnsupportedFormatError{Hint: "content matches no supported format"}
}

// DetectAndParse is the import entry point: detect the format, then parse.
func DetectAndParse(filename string, data []byte) (*types.Library, error) {
	ad, err := Detect(filename, data)
	if err != nil {
		return nil, err
	}
	return ad.Parse(data)
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return strings.TrimSpace(text)
}

// csvHeaderLooksLikeLibrary reports whether a header row carries at least
// one column name a DJ library export would use.
func csvHeaderLooksLikeLibrary(line string) bool {
	lower := strings.ToLower(line)
	for _, col := range []string{"title", "artist", "file", "key", "bpm"} {
		if strings.Contains(lower, col) {
			return true
		}
	}
	return false
}

// parseFloat reads an optional decimal value, accepting both "." and ","
// separators. Empty or unparseable input yields nil.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseInt reads an optional integer value. Empty or unparseable input
// yields nil. A literal 0 is preserved as 0.
func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// parseSeconds reads an optional duration in seconds, tolerating a decimal
// value by truncating it.
func parseSeconds(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	if f := parseFloat(s); f != nil {
		v := int(*f)
		return &v
	}
	return nil
}

func formatBPM(p *float64, prec int) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', prec, 64)
}

func formatInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
