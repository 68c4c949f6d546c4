package studio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

func newTestServer(t *testing.T, gen *fakeGenerator) (*httptest.Server, *Controller) {
	t.Helper()

	manager := NewSessionManager(24*time.Hour, 2*time.Hour)
	c := NewController(manager, gen)
	c.SetDispatch(func(job *Job) {
		c.ProcessJob(context.Background(), job)
	})

	r := mux.NewRouter()
	c.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, c
}

func multipartUpload(t *testing.T, url string, payload []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "garment.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write(payload)
	writer.Close()

	resp, err := http.Post(url+"/api/studio/s1/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload request error = %v", err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleUpload(t *testing.T) {
	server, c := newTestServer(t, &fakeGenerator{})

	resp := multipartUpload(t, server.URL, []byte("jpeg-bytes"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	if body["success"] != true {
		t.Errorf("upload response = %v, want success", body)
	}

	if !c.State("s1").HasSource {
		t.Error("upload did not store the source image")
	}
}

func TestHandleUpload_DataURI(t *testing.T) {
	server, c := newTestServer(t, &fakeGenerator{})

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-payload"))
	payload, _ := json.Marshal(map[string]string{"image": uri})

	resp, err := http.Post(server.URL+"/api/studio/s1/upload", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("upload request error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", resp.StatusCode)
	}
	if !c.State("s1").HasSource {
		t.Error("data-URI upload did not store the source image")
	}
}

func TestParseDataURI(t *testing.T) {
	mime, data, err := parseDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg")))
	if err != nil {
		t.Fatalf("parseDataURI() error = %v", err)
	}
	if mime != "image/jpeg" || string(data) != "jpg" {
		t.Errorf("parseDataURI() = (%q, %q)", mime, data)
	}

	if _, _, err := parseDataURI("plain text"); err == nil {
		t.Error("parseDataURI() accepted a non data URI")
	}
	if _, _, err := parseDataURI("data:image/png;base64,!!!"); err == nil {
		t.Error("parseDataURI() accepted invalid base64")
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	server, _ := newTestServer(t, &fakeGenerator{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("note", "no file here")
	writer.Close()

	resp, err := http.Post(server.URL+"/api/studio/s1/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload request error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload status = %d, want 400", resp.StatusCode)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	server, _ := newTestServer(t, &fakeGenerator{})
	client := server.Client()

	resp, err := client.Get(server.URL + "/api/studio/s1/settings")
	if err != nil {
		t.Fatalf("GET settings error = %v", err)
	}
	var settings catalog.Settings
	decodeJSON(t, resp, &settings)
	if settings.Scenario != catalog.ScenarioStudioMinimal {
		t.Errorf("default scenario = %q", settings.Scenario)
	}

	settings.Scenario = catalog.ScenarioNatureBeach
	settings.PreserveModel = true
	payload, _ := json.Marshal(settings)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/studio/s1/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT settings error = %v", err)
	}
	var updated catalog.Settings
	decodeJSON(t, resp, &updated)
	if updated.Scenario != catalog.ScenarioNatureBeach || !updated.PreserveModel {
		t.Errorf("PUT settings round-trip = %+v", updated)
	}
}

func TestSettingsRejectsUnknownEnum(t *testing.T) {
	server, _ := newTestServer(t, &fakeGenerator{})

	settings := catalog.DefaultSettings()
	settings.Scenario = "Mars Colony"
	payload, _ := json.Marshal(settings)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/studio/s1/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT settings error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("PUT settings status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateFlow(t *testing.T) {
	gen := &fakeGenerator{imageData: []byte("generated-png"), videoData: []byte("mp4")}
	server, _ := newTestServer(t, gen)
	client := server.Client()

	// generate without a source fails
	resp, err := client.Post(server.URL+"/api/studio/s1/generate", "application/json", nil)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("generate without source status = %d, want 400", resp.StatusCode)
	}

	multipartUpload(t, server.URL, []byte("jpeg-bytes")).Body.Close()

	resp, err = client.Post(server.URL+"/api/studio/s1/generate", "application/json", nil)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate status = %d, want 202", resp.StatusCode)
	}
	var accepted map[string]string
	decodeJSON(t, resp, &accepted)
	if accepted["jobId"] == "" {
		t.Fatal("generate returned no jobId")
	}

	// synchronous dispatch: state already reflects the finished job
	resp, err = client.Get(server.URL + "/api/studio/s1/state")
	if err != nil {
		t.Fatalf("state error = %v", err)
	}
	var state StateView
	decodeJSON(t, resp, &state)
	if len(state.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(state.History))
	}
	if state.ActiveID != state.History[0].ID {
		t.Error("newest item not active")
	}

	// video generation against the active item
	payload, _ := json.Marshal(map[string]string{"movement": string(catalog.MovementBreeze)})
	resp, err = client.Post(server.URL+"/api/studio/s1/generate-video", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("generate-video error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate-video status = %d, want 202", resp.StatusCode)
	}

	resp, err = client.Get(server.URL + "/api/studio/s1/history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var history []HistoryItemView
	decodeJSON(t, resp, &history)
	if len(history) != 1 || !history[0].HasVideo {
		t.Errorf("history after video = %+v, want one item with video", history)
	}
}

func TestGenerateVideo_UnknownMovement(t *testing.T) {
	server, _ := newTestServer(t, &fakeGenerator{})

	payload, _ := json.Marshal(map[string]string{"movement": "Backflip"})
	resp, err := http.Post(server.URL+"/api/studio/s1/generate-video", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("generate-video error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("generate-video status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSelectAndDownloads(t *testing.T) {
	gen := &fakeGenerator{imageData: []byte("png-bytes"), videoData: []byte("mp4-bytes")}
	server, c := newTestServer(t, gen)
	client := server.Client()

	multipartUpload(t, server.URL, []byte("jpeg-bytes")).Body.Close()
	resp, _ := client.Post(server.URL+"/api/studio/s1/generate", "application/json", nil)
	resp.Body.Close()

	itemID := c.State("s1").ActiveID

	// raw history image
	resp, err := client.Get(server.URL + "/api/studio/s1/history/" + itemID + "/image")
	if err != nil {
		t.Fatalf("item image error = %v", err)
	}
	raw := new(bytes.Buffer)
	raw.ReadFrom(resp.Body)
	resp.Body.Close()
	if raw.String() != "png-bytes" {
		t.Errorf("item image = %q, want raw generated bytes", raw.String())
	}

	// select round-trip
	payload, _ := json.Marshal(map[string]string{"id": itemID})
	resp, err = client.Post(server.URL+"/api/studio/s1/select", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("select error = %v", err)
	}
	var state StateView
	decodeJSON(t, resp, &state)
	if state.ActiveID != itemID {
		t.Errorf("select activeId = %q, want %q", state.ActiveID, itemID)
	}

	// image download carries the attachment header
	resp, err = client.Get(server.URL + "/api/studio/s1/download/image")
	if err != nil {
		t.Fatalf("download image error = %v", err)
	}
	resp.Body.Close()
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "lumina-foto-") || !strings.Contains(cd, ".png") {
		t.Errorf("image Content-Disposition = %q", cd)
	}

	// video download 404s before a video exists
	resp, err = client.Get(server.URL + "/api/studio/s1/download/video")
	if err != nil {
		t.Fatalf("download video error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("download video status = %d, want 404", resp.StatusCode)
	}

	payload, _ = json.Marshal(map[string]string{"movement": string(catalog.MovementSlowTurn)})
	resp, _ = client.Post(server.URL+"/api/studio/s1/generate-video", "application/json", bytes.NewReader(payload))
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/api/studio/s1/download/video")
	if err != nil {
		t.Fatalf("download video error = %v", err)
	}
	body := new(bytes.Buffer)
	body.ReadFrom(resp.Body)
	resp.Body.Close()
	if body.String() != "mp4-bytes" {
		t.Errorf("video download = %q, want mp4 bytes", body.String())
	}
	cd = resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "lumina-video-") || !strings.Contains(cd, ".mp4") {
		t.Errorf("video Content-Disposition = %q", cd)
	}
}

func TestDismissErrorEndpoint(t *testing.T) {
	gen := &fakeGenerator{imageErr: errors.New("backend down")}
	server, c := newTestServer(t, gen)
	client := server.Client()

	multipartUpload(t, server.URL, []byte("jpeg-bytes")).Body.Close()
	resp, _ := client.Post(server.URL+"/api/studio/s1/generate", "application/json", nil)
	resp.Body.Close()

	if c.State("s1").LastError == "" {
		t.Fatal("expected a failure message before dismiss")
	}

	resp, err := client.Post(server.URL+"/api/studio/s1/dismiss-error", "application/json", nil)
	if err != nil {
		t.Fatalf("dismiss-error error = %v", err)
	}
	resp.Body.Close()

	if got := c.State("s1").LastError; got != "" {
		t.Errorf("lastError after dismiss = %q, want empty", got)
	}
}
