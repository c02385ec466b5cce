package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"segue/cmd"
)

// TestHelper provides utilities for testing the Segue server
type TestHelper struct {
	Server *httptest.Server
	Router *gin.Engine
}

// NewTestHelper creates a new test helper backed by a fully wired router
func NewTestHelper(t *testing.T) *TestHelper {
	gin.SetMode(gin.TestMode)

	router := cmd.NewRouter()
	server := httptest.NewServer(router)

	return &TestHelper{
		Server: server,
		Router: router,
	}
}

// Cleanup cleans up test resources
func (h *TestHelper) Cleanup(t *testing.T) {
	if h.Server != nil {
		h.Server.Close()
	}
}

// sampleRekordboxXML is the main scenario fixture: five tracks with varied
// metadata, one duplicate pair sharing a file name, one track with nothing
// but a title, and two playlists overlapping on one track.
const sampleRekordboxXML = `<?xml version="1.0" encoding="UTF-8"?>
<DJ_PLAYLISTS Version="1.0.0">
  <COLLECTION Entries="5">
    <TRACK TrackID="1" Name="Midnight City" Artist="M83" Location="/music/m83/midnight_city.mp3" AverageBpm="105.00" Tonality="11B" Year="2011" TotalTime="243"/>
    <TRACK TrackID="2" Name="One More Time" Artist="Daft Punk" Location="/music/daft/one_more_time.mp3" AverageBpm="123.00" Tonality="2B" Year="2000" TotalTime="320"/>
    <TRACK TrackID="3" Name="Strobe" Artist="deadmau5" Location="/music/deadmau5/strobe.mp3" AverageBpm="128.00" Tonality="2B" Year="2009" TotalTime="634"/>
    <TRACK TrackID="4" Name="Strobe" Artist="deadmau5" Location="/archive/deadmau5/strobe.mp3" AverageBpm="128.00" Tonality="2B" Year="2009" TotalTime="634"/>
    <TRACK TrackID="5" Name="Untitled" Artist="" Location=""/>
  </COLLECTION>
  <PLAYLISTS>
    <NODE Type="0" Name="ROOT">
      <NODE Type="1" Name="Warmup" Entries="2">
        <TRACK Key="1"/>
        <TRACK Key="2"/>
      </NODE>
      <NODE Type="1" Name="Peak" Entries="2">
        <TRACK Key="2"/>
        <TRACK Key="3"/>
      </NODE>
    </NODE>
  </PLAYLISTS>
</DJ_PLAYLISTS>`

const sampleM3U = `#EXTM3U
#EXTINF:222,Artist One - Sunrise
/music/one/sunrise.mp3
#EXTINF:-1,Artist Two - Moonlight
/music/two/moonlight.mp3
`

const sampleSeratoCSV = `Artist,Title,File,Key,BPM,Year
Bicep,Glue,/music/bicep/glue.mp3,4A,120,2017
Overmono,So U Kno,/music/overmono/so_u_kno.mp3,9A,134,2021
`

const sampleTraktorNML = `<?xml version="1.0" encoding="UTF-8"?>
<NML VERSION="19">
  <COLLECTION>
    <ENTRY TITLE="Opus" ARTIST="Eric Prydz">
      <LOCATION DIR="/music/prydz/" FILE="opus.mp3"></LOCATION>
      <INFO BPM="126.00" MUSICAL_KEY="6A" RELEASE_DATE="2016-02-05" PLAYTIME="540"></INFO>
    </ENTRY>
  </COLLECTION>
  <PLAYLISTS>
    <NODE NAME="ROOT" TYPE="FOLDER">
      <NODE NAME="Prog" TYPE="PLAYLIST">
        <ENTRY KEY="/music/prydz/opus.mp3"></ENTRY>
      </NODE>
    </NODE>
  </PLAYLISTS>
</NML>`

// UploadFile posts a multipart file to /api/import and returns the raw
// response and body without asserting on the status.
func (h *TestHelper) UploadFile(t *testing.T, filename string, content []byte) (*http.Response, []byte) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, h.Server.URL+"/api/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// ImportLibrary uploads a file, requires success and returns the new
// library id.
func (h *TestHelper) ImportLibrary(t *testing.T, filename string, content []byte) string {
	resp, body := h.UploadFile(t, filename, content)
	require.Equal(t, http.StatusOK, resp.StatusCode, "import failed: %s", string(body))

	var result struct {
		LibraryID string `json:"library_id"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	require.NotEmpty(t, result.LibraryID)
	return result.LibraryID
}

// MakeRequest makes an HTTP request to the test server with an optional
// JSON body
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON makes a GET request and unmarshals the JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	return h.doJSON(t, "GET", path, nil, target)
}

// PostJSON makes a POST request with a JSON body and unmarshals the JSON
// response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	return h.doJSON(t, "POST", path, requestBody, target)
}

// DeleteJSON makes a DELETE request and unmarshals the JSON response
func (h *TestHelper) DeleteJSON(t *testing.T, path string, target interface{}) *http.Response {
	return h.doJSON(t, "DELETE", path, nil, target)
}

func (h *TestHelper) doJSON(t *testing.T, method, path string, requestBody, target interface{}) *http.Response {
	resp := h.MakeRequest(t, method, path, requestBody)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil && len(body) > 0 {
		err = json.Unmarshal(body, target)
		require.NoError(t, err, "unexpected response body: %s", string(body))
	}

	return resp
}

// ReadBody makes a request and returns the raw body, for non-JSON
// responses like exports.
func (h *TestHelper) ReadBody(t *testing.T, method, path string, requestBody interface{}) (*http.Response, []byte) {
	resp := h.MakeRequest(t, method, path, requestBody)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

// ConnectWebSocket connects to a WebSocket endpoint
func (h *TestHelper) ConnectWebSocket(t *testing.T, path string) *websocket.Conn {
	wsURL := "ws" + h.Server.URL[4:] + path // Replace http:// with ws://

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn
}

// libraryOverview mirrors the GET /api/library/:id response shape.
type libraryOverview struct {
	ID            string `json:"id"`
	SourceFormat  string `json:"source_format"`
	TrackCount    int    `json:"track_count"`
	PlaylistCount int    `json:"playlist_count"`
	Playlists     []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		TrackCount int    `json:"track_count"`
	} `json:"playlists"`
}

// GetLibrary fetches one library's overview.
func (h *TestHelper) GetLibrary(t *testing.T, libID string) libraryOverview {
	var overview libraryOverview
	resp := h.GetJSON(t, "/api/library/"+libID, &overview)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return overview
}

// PlaylistIDByName resolves a playlist id within a library.
func (h *TestHelper) PlaylistIDByName(t *testing.T, libID, name string) string {
	overview := h.GetLibrary(t, libID)
	for _, p := range overview.Playlists {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("playlist %q not found in library %s", name, libID)
	return ""
}

// apiTrack mirrors the track shape returned by the tracks listing.
type apiTrack struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Artist          string                 `json:"artist"`
	FilePath        string                 `json:"file_path"`
	BPM             *float64               `json:"bpm"`
	Key             *string                `json:"key"`
	Year            *int                   `json:"year"`
	DurationSeconds *int                   `json:"duration_seconds"`
	Tags            []string               `json:"tags"`
	CustomFields    map[string]interface{} `json:"custom_fields"`
}

// ListTracks fetches a library's tracks, optionally with a query string.
func (h *TestHelper) ListTracks(t *testing.T, libID, query string) []apiTrack {
	path := "/api/library/" + libID + "/tracks"
	if query != "" {
		path += "?" + query
	}
	var tracks []apiTrack
	resp := h.GetJSON(t, path, &tracks)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return tracks
}

// TrackIDByTitle resolves a track id within a library, failing on ambiguity.
func (h *TestHelper) TrackIDByTitle(t *testing.T, libID, title string) string {
	id := ""
	for _, track := range h.ListTracks(t, libID, "") {
		if track.Title == title {
			require.Empty(t, id, "title %q is ambiguous in library %s", title, libID)
			id = track.ID
		}
	}
	require.NotEmpty(t, id, "track %q not found in library %s", title, libID)
	return id
}

// createTaggedMP3File builds a minimal ID3v2.3 file carrying a title and
// artist frame, enough for tag extraction in enrichment tests.
func createTaggedMP3File(title, artist string) []byte {
	frame := func(id, value string) []byte {
		content := append([]byte{0x00}, []byte(value)...) // ISO-8859-1 encoding byte
		var buf bytes.Buffer
		buf.WriteString(id)
		size := make([]byte, 4)
		binary.BigEndian.PutUint32(size, uint32(len(content)))
		buf.Write(size)
		buf.Write([]byte{0x00, 0x00}) // frame flags
		buf.Write(content)
		return buf.Bytes()
	}

	var frames bytes.Buffer
	frames.Write(frame("TIT2", title))
	frames.Write(frame("TPE1", artist))

	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{0x03, 0x00, 0x00}) // v2.3, no header flags
	size := frames.Len()
	out.Write([]byte{ // syncsafe tag size
		byte(size >> 21 & 0x7F),
		byte(size >> 14 & 0x7F),
		byte(size >> 7 & 0x7F),
		byte(size & 0x7F),
	})
	out.Write(frames.Bytes())
	return out.Bytes()
}
