package studio

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

// maxUploadSize caps garment photo uploads at 10MB.
const maxUploadSize = 10 << 20

// RegisterRoutes mounts the studio API under /api/studio/{sessionId}.
func (c *Controller) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/studio/{sessionId}").Subrouter()

	api.HandleFunc("/upload", c.handleUpload).Methods("POST")
	api.HandleFunc("/settings", c.handleGetSettings).Methods("GET")
	api.HandleFunc("/settings", c.handlePutSettings).Methods("PUT")
	api.HandleFunc("/generate", c.handleGenerate).Methods("POST")
	api.HandleFunc("/generate-video", c.handleGenerateVideo).Methods("POST")
	api.HandleFunc("/history", c.handleHistory).Methods("GET")
	api.HandleFunc("/history/{itemId}/image", c.handleItemImage).Methods("GET")
	api.HandleFunc("/select", c.handleSelect).Methods("POST")
	api.HandleFunc("/state", c.handleState).Methods("GET")
	api.HandleFunc("/dismiss-error", c.handleDismissError).Methods("POST")
	api.HandleFunc("/download/image", c.handleDownloadImage).Methods("GET")
	api.HandleFunc("/download/video", c.handleDownloadVideo).Methods("GET")
}

func sessionIDFrom(r *http.Request) string {
	return mux.Vars(r)["sessionId"]
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps controller guard errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrItemNotFound), errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrImageBusy), errors.Is(err, ErrVideoBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNoSource), errors.Is(err, ErrNoActiveImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var dataURIPattern = regexp.MustCompile(`^data:([a-z]+/[a-z0-9.+-]+);base64,(.+)$`)

// parseDataURI splits a browser data URI into its MIME type and payload.
func parseDataURI(uri string) (mimeType string, data []byte, err error) {
	m := dataURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", nil, fmt.Errorf("not a base64 data URI")
	}
	data, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return m[1], data, nil
}

// handleUpload accepts the garment photo either as a multipart file or as
// a JSON body carrying a data URI, the way the browser client sends it.
func (c *Controller) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var data []byte
	var mimeType string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			writeError(w, http.StatusBadRequest, "missing image data URI")
			return
		}
		var err error
		mimeType, data, err = parseDataURI(req.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing image file")
			return
		}
		defer file.Close()

		data, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read image file")
			return
		}

		mimeType = header.Header.Get("Content-Type")
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	c.Upload(sessionIDFrom(r), data, mimeType)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"size":    len(data),
	})
}

func (c *Controller) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Settings(sessionIDFrom(r)))
}

func (c *Controller) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings catalog.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}

	if err := c.UpdateSettings(sessionIDFrom(r), settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Settings(sessionIDFrom(r)))
}

func (c *Controller) handleGenerate(w http.ResponseWriter, r *http.Request) {
	jobID, err := c.StartImage(sessionIDFrom(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

func (c *Controller) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Movement catalog.VideoMovement `json:"movement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Movement != "" && !req.Movement.Valid() {
		writeError(w, http.StatusBadRequest, "unknown movement")
		return
	}

	jobID, err := c.StartVideo(sessionIDFrom(r), req.Movement)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

func (c *Controller) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.History(sessionIDFrom(r)))
}

func (c *Controller) handleItemImage(w http.ResponseWriter, r *http.Request) {
	item, err := c.Item(sessionIDFrom(r), mux.Vars(r)["itemId"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", item.Image.MIMEType)
	w.WriteHeader(http.StatusOK)
	w.Write(item.Image.Data)
}

func (c *Controller) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	if err := c.Select(sessionIDFrom(r), req.ID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.State(sessionIDFrom(r)))
}

func (c *Controller) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.State(sessionIDFrom(r)))
}

func (c *Controller) handleDismissError(w http.ResponseWriter, r *http.Request) {
	c.DismissError(sessionIDFrom(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (c *Controller) handleDownloadImage(w http.ResponseWriter, r *http.Request) {
	item, err := c.ActiveItem(sessionIDFrom(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	filename := fmt.Sprintf("lumina-foto-%d.png", c.now().UnixMilli())
	w.Header().Set("Content-Type", item.Image.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(item.Image.Data)

	log.Printf("📥 Session %s downloaded image %s as %s", sessionIDFrom(r), item.ID, filename)
}

func (c *Controller) handleDownloadVideo(w http.ResponseWriter, r *http.Request) {
	item, err := c.ActiveItem(sessionIDFrom(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(item.Video) == 0 {
		writeError(w, http.StatusNotFound, "active item has no video")
		return
	}

	filename := fmt.Sprintf("lumina-video-%d.mp4", c.now().UnixMilli())
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(item.Video)

	log.Printf("📥 Session %s downloaded video %s as %s", sessionIDFrom(r), item.ID, filename)
}
